package render

const layoutHead = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>Fassadenbegrünung Profi-Planer</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 18rem; padding: 1rem; background: #f7f7f9; min-height: 100vh; }
main { flex: 1; padding: 1rem 2rem; }
.grid-row { display: grid; grid-template-columns: repeat(3, 1fr); gap: 1rem; margin-bottom: 1rem; }
.card { border: 1px solid #e0e0e0; border-radius: 5px; padding: 0.75rem; }
.card img { width: 100%; }
.placeholder { background: #eef5ff; padding: 2rem 0; text-align: center; }
.guest-warning { padding: 10px; background-color: #ffeeba; color: #856404; border-radius: 5px; text-align: center; font-size: 0.9em; }
.warning { background: #fff3cd; padding: 0.75rem; border-radius: 5px; }
.success { background: #d4edda; padding: 0.75rem; border-radius: 5px; }
.error { color: #ff0000; }
</style>
</head>`

const loginPage = `{{> layout_head}}
<body>
<main>
<h2>Geschützter Bereich</h2>
<p>Bitte melden Sie sich an.</p>
<form method="post" action="/login">
<label>Benutzername <input type="text" name="username" autocomplete="username"></label><br>
<label>Passwort <input type="password" name="password" autocomplete="current-password"></label><br>
<button type="submit">Anmelden</button>
</form>
{{#Error}}<p class="error">{{Error}}</p>{{/Error}}
</main>
</body>
</html>
`

const controlPartial = `<label>{{Label}}<br>
<select name="{{Field}}" multiple>
{{#Options}}<option value="{{Value}}"{{#Selected}} selected{{/Selected}}>{{Value}}</option>
{{/Options}}</select></label><br>
`

const cardPartial = `<div class="card">
<h3>{{Title}}</h3>
<small>{{Subtitle}}</small>
{{#HasImage}}<img src="{{ImageURL}}" alt="{{Title}}">{{/HasImage}}
{{^HasImage}}<div class="placeholder">Kein Bild verfügbar</div>{{/HasImage}}
<p><strong>Standort:</strong> {{Location}}<br><strong>Typ:</strong> {{ClimbingType}}</p>
<details>
<summary>Details</summary>
{{#HasDescription}}<p><strong>Beschreibung:</strong> {{Description}}</p><hr>{{/HasDescription}}
{{#Details}}<div><strong>{{Label}}:</strong> {{Value}}</div>
{{/Details}}
</details>
</div>
`

const catalogPage = `{{> layout_head}}
<body>
<aside>
<p>Angemeldet als: <strong>{{Username}}</strong></p>
<form method="post" action="/logout"><button type="submit">Abmelden</button></form>
<hr>
{{^Empty}}
<h3>Filter</h3>
<form method="post" action="/filters/reset"><button type="submit">Reset</button></form>
<form method="post" action="/filters">
{{#Primary}}{{> control}}{{/Primary}}
<fieldset><legend>Immergrün</legend>
{{#Evergreen}}<label><input type="radio" name="immergruen" value="{{Value}}"{{#Selected}} checked{{/Selected}}> {{Value}}</label>
{{/Evergreen}}</fieldset>
<label><input type="checkbox" name="insekten" value="1"{{#Insects}} checked{{/Insects}}> Insekten</label>
<hr>
<details>
<summary>Weitere Eigenschaften</summary>
{{#Secondary}}{{> control}}{{/Secondary}}
</details>
<button type="submit">Anwenden</button>
</form>
<hr>
<h3>Export</h3>
{{#CanExport}}
<p><a href="/export/xlsx">Excel</a></p>
<p><a href="/export/pdf">PDF</a></p>
{{/CanExport}}
{{^CanExport}}
<p class="warning">Export nur in Vollversion</p>
<div class="guest-warning">Bitte Vollversion erwerben für Excel &amp; PDF Export</div>
{{/CanExport}}
{{/Empty}}
</aside>
<main>
{{#HasLogo}}<img src="/logo" alt="Logo" style="max-width: 10rem;">{{/HasLogo}}
<h1>Profi-Datenbank</h1>
<h3>Fassadenbegrünung</h3>
<hr>
{{#Warning}}<p class="warning">{{Warning}}</p>{{/Warning}}
{{#Empty}}<p class="warning">Keine Daten gefunden.</p>{{/Empty}}
{{^Empty}}
<p class="success">{{Count}} Pflanzen</p>
{{#Rows}}<div class="grid-row">
{{#Cards}}{{> card}}{{/Cards}}
</div>
{{/Rows}}
{{/Empty}}
</main>
</body>
</html>
`
