package notification

import (
	"bytes"
	"html/template"
)

var uploadReportTmpl = template.Must(template.New("upload_report").Parse(`
<html>
<body style="font-family: sans-serif; color: #222;">
	<h2>Bulk lead upload processed</h2>
	<p>Upload #{{.UploadID}} has finished processing.</p>
	<table cellpadding="6" style="border-collapse: collapse;">
		<tr><td>Total rows</td><td><strong>{{.TotalRecords}}</strong></td></tr>
		<tr><td>Inserted</td><td><strong>{{.ValidRecords}}</strong></td></tr>
		<tr><td>Rejected</td><td><strong>{{.InvalidRecords}}</strong></td></tr>
	</table>
	<p>The per-row audit trail is available in the upload details view.</p>
</body>
</html>`))

func renderUploadReport(report UploadReport) (string, error) {
	var buf bytes.Buffer
	if err := uploadReportTmpl.Execute(&buf, report); err != nil {
		return "", err
	}
	return buf.String(), nil
}
