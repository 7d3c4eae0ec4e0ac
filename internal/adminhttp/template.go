package adminhttp

// serverInfoTemplate renders the admin status page: the country
// manager's trace flag and a row per country server. html/template is
// the one templating choice here because no third-party templating
// engine appears anywhere in the example pack.
const serverInfoTemplate = `<!DOCTYPE html>
<html>
<head><title>geofleet — server info</title></head>
<body>
<h1>geofleet</h1>
<p>country_manager_trace: {{.Trace}}</p>
<table border="1">
<tr><th>code</th><th>name</th><th>continent</th><th>status</th><th>substatus</th><th>progress</th><th>city_count</th></tr>
{{range .Servers}}
<tr>
<td>{{.CountryCode}}</td>
<td>{{.CountryName}}</td>
<td>{{.Continent}}</td>
<td>{{.Status}}</td>
<td>{{.Substatus}}</td>
<td>{{.Progress}}</td>
<td>{{.CityCount}}</td>
</tr>
{{end}}
</table>
</body>
</html>
`
