package handlers

const loginHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>CareChat - Sign in</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0f172a; color: #f8fafc;
    display: flex; align-items: center; justify-content: center;
    min-height: 100vh;
  }
  .card {
    background: #1e293b; border: 1px solid #334155; border-radius: 12px;
    padding: 2rem; width: 100%; max-width: 380px;
    opacity: 0; transform: translateY(8px);
    transition: opacity 0.4s ease, transform 0.4s ease;
  }
  .card.active { opacity: 1; transform: translateY(0); }
  h1 { font-size: 1.25rem; font-weight: 600; margin-bottom: 0.25rem; }
  .subtitle { color: #94a3b8; font-size: 0.875rem; margin-bottom: 1.5rem; }
  label { display: block; font-size: 0.875rem; color: #cbd5e1; margin-bottom: 0.375rem; }
  input[type="text"], input[type="password"] {
    width: 100%; padding: 0.5rem 0.75rem;
    background: #0f172a; border: 1px solid #334155; border-radius: 6px;
    color: #f8fafc; font-size: 0.875rem;
    margin-bottom: 1rem; outline: none;
  }
  input:focus { border-color: #38bdf8; }
  .password-row { position: relative; }
  .password-row input { padding-right: 3.5rem; }
  .toggle {
    position: absolute; right: 0.5rem; top: 0.35rem;
    background: none; border: none; color: #38bdf8;
    font-size: 0.75rem; cursor: pointer; width: auto; padding: 0.25rem;
  }
  button[type="submit"] {
    width: 100%; padding: 0.5rem; background: #0284c7; color: #fff;
    border: none; border-radius: 6px; font-size: 0.875rem; font-weight: 500;
    cursor: pointer;
  }
  button[type="submit"]:hover { background: #0369a1; }
  button[type="submit"]:disabled { background: #334155; cursor: wait; }
  button.loading::after {
    content: ""; display: inline-block; width: 0.75rem; height: 0.75rem;
    margin-left: 0.5rem; vertical-align: -0.1rem;
    border: 2px solid #94a3b8; border-top-color: #f8fafc; border-radius: 50%;
    animation: spin 0.7s linear infinite;
  }
  @keyframes spin { to { transform: rotate(360deg); } }
  .error {
    background: #450a0a; border: 1px solid #7f1d1d; border-radius: 6px;
    color: #fca5a5; padding: 0.5rem 0.75rem; font-size: 0.8125rem;
    margin-bottom: 1rem;
  }
  .switch { margin-top: 1rem; font-size: 0.8125rem; color: #94a3b8; text-align: center; }
  .switch a { color: #38bdf8; text-decoration: none; }
</style>
</head>
<body>
<div class="card" id="login-card">
  <h1>CareChat</h1>
  <p class="subtitle">Sign in to your health assistant</p>
  {{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
  <form method="POST" action="/auth/login" id="login-form">
    {{.CSRFField}}
    <label for="username">Username</label>
    <input type="text" id="username" name="username" value="{{.Username}}" autocomplete="username" required autofocus>
    <label for="password">Password</label>
    <div class="password-row">
      <input type="password" id="password" name="password" autocomplete="current-password" required>
      <button type="button" class="toggle" id="toggle-password" aria-label="Show password">Show</button>
    </div>
    <button type="submit" id="submit-btn">Sign in</button>
  </form>
  <p class="switch">No account yet? <a href="/auth/signup">Create one</a></p>
</div>
<script>
  setTimeout(function () {
    document.getElementById('login-card').classList.add('active');
  }, 100);

  document.getElementById('toggle-password').addEventListener('click', function () {
    var input = document.getElementById('password');
    var reveal = input.type === 'password';
    input.type = reveal ? 'text' : 'password';
    this.textContent = reveal ? 'Hide' : 'Show';
  });

  document.getElementById('login-form').addEventListener('submit', function () {
    var btn = document.getElementById('submit-btn');
    btn.disabled = true;
    btn.classList.add('loading');
    btn.textContent = 'Signing in';
    this.querySelectorAll('input').forEach(function (input) {
      input.readOnly = true;
    });
  });
</script>
</body>
</html>`

const signupHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>CareChat - Create account</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0f172a; color: #f8fafc;
    display: flex; align-items: center; justify-content: center;
    min-height: 100vh;
  }
  .card {
    background: #1e293b; border: 1px solid #334155; border-radius: 12px;
    padding: 2rem; width: 100%; max-width: 380px;
  }
  h1 { font-size: 1.25rem; font-weight: 600; margin-bottom: 0.25rem; }
  .subtitle { color: #94a3b8; font-size: 0.875rem; margin-bottom: 1.5rem; }
  label { display: block; font-size: 0.875rem; color: #cbd5e1; margin-bottom: 0.375rem; }
  input {
    width: 100%; padding: 0.5rem 0.75rem;
    background: #0f172a; border: 1px solid #334155; border-radius: 6px;
    color: #f8fafc; font-size: 0.875rem;
    margin-bottom: 1rem; outline: none;
  }
  input:focus { border-color: #38bdf8; }
  button[type="submit"] {
    width: 100%; padding: 0.5rem; background: #0284c7; color: #fff;
    border: none; border-radius: 6px; font-size: 0.875rem; font-weight: 500;
    cursor: pointer;
  }
  button[type="submit"]:hover { background: #0369a1; }
  .error {
    background: #450a0a; border: 1px solid #7f1d1d; border-radius: 6px;
    color: #fca5a5; padding: 0.5rem 0.75rem; font-size: 0.8125rem;
    margin-bottom: 1rem;
  }
  .switch { margin-top: 1rem; font-size: 0.8125rem; color: #94a3b8; text-align: center; }
  .switch a { color: #38bdf8; text-decoration: none; }
</style>
</head>
<body>
<div class="card">
  <h1>CareChat</h1>
  <p class="subtitle">Create your account</p>
  {{if .Error}}<div class="error" role="alert">{{.Error}}</div>{{end}}
  <form method="POST" action="/auth/signup">
    {{.CSRFField}}
    <label for="username">Username</label>
    <input type="text" id="username" name="username" value="{{.Username}}" autocomplete="username" required minlength="3" autofocus>
    <label for="email">Email</label>
    <input type="email" id="email" name="email" value="{{.Email}}" autocomplete="email" required>
    <label for="full_name">Full name (optional)</label>
    <input type="text" id="full_name" name="full_name" value="{{.FullName}}" autocomplete="name">
    <label for="password">Password</label>
    <input type="password" id="password" name="password" autocomplete="new-password" required minlength="6">
    <button type="submit">Create account</button>
  </form>
  <p class="switch">Already registered? <a href="/auth/login">Sign in</a></p>
</div>
</body>
</html>`

const homeHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>CareChat - Home</title>
<style>
  *, *::before, *::after { box-sizing: border-box; margin: 0; padding: 0; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0f172a; color: #f8fafc;
    max-width: 720px; margin: 0 auto; padding: 2rem 1rem;
  }
  header { display: flex; justify-content: space-between; align-items: baseline; margin-bottom: 2rem; }
  h1 { font-size: 1.25rem; font-weight: 600; }
  a { color: #38bdf8; text-decoration: none; font-size: 0.875rem; }
  .panel {
    background: #1e293b; border: 1px solid #334155; border-radius: 12px;
    padding: 1.5rem; margin-bottom: 1.5rem;
  }
  .panel h2 { font-size: 1rem; margin-bottom: 0.75rem; }
  dl { display: grid; grid-template-columns: 8rem 1fr; row-gap: 0.375rem; font-size: 0.875rem; }
  dt { color: #94a3b8; }
  table { width: 100%; border-collapse: collapse; font-size: 0.8125rem; }
  th, td { text-align: left; padding: 0.375rem 0.5rem; border-bottom: 1px solid #334155; }
  th { color: #94a3b8; font-weight: 500; }
  .muted { color: #64748b; font-size: 0.75rem; margin-top: 1rem; }
</style>
</head>
<body>
<header>
  <h1>CareChat</h1>
  <a href="/auth/logout">Sign out</a>
</header>
{{if .User}}
<div class="panel">
  <h2>Signed in as {{.User.Username}}</h2>
  <dl>
    <dt>User ID</dt><dd>{{.User.UserID}}</dd>
    <dt>Email</dt><dd>{{.User.Email}}</dd>
    {{if .User.FullName}}<dt>Full name</dt><dd>{{.User.FullName}}</dd>{{end}}
  </dl>
</div>
{{end}}
{{if .Sessions}}
<div class="panel">
  <h2>Recent logins</h2>
  <table>
    <tr><th>Session</th><th>Created</th><th>Expires</th></tr>
    {{range .Sessions}}
    <tr><td>{{shortID .ID}}</td><td>{{formatTime .CreatedAt}}</td><td>{{formatTime .ExpiresAt}}</td></tr>
    {{end}}
  </table>
</div>
{{end}}
<p class="muted">CareChat portal {{.Version}}</p>
</body>
</html>`

const notFoundHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>CareChat - Not found</title>
<style>
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0f172a; color: #f8fafc;
    display: flex; align-items: center; justify-content: center;
    min-height: 100vh; flex-direction: column;
  }
  a { color: #38bdf8; }
</style>
</head>
<body>
<h1>Page not found</h1>
<p><a href="/">Back to the portal</a></p>
</body>
</html>`
