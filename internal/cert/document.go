package cert

import (
	"html/template"
	"strings"
	"time"
)

var documentTmpl = template.Must(template.New("certificate").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Certificate of Completion</title></head>
<body>
  <main class="certificate">
    <h1>Certificate of Completion</h1>
    <p class="recipient">{{.Recipient}}</p>
    <p>has successfully completed</p>
    <p class="course">{{.Course}}</p>
    <p class="issued">Issued {{.IssuedAt}}</p>
    <p class="number">{{.Number}}</p>
    <p class="verify">Verify at <a href="{{.VerifyURL}}">{{.VerifyURL}}</a></p>
  </main>
</body>
</html>
`))

func renderDocument(recipient, course, number string, issuedAt time.Time, verifyURL string) string {
	var b strings.Builder
	_ = documentTmpl.Execute(&b, map[string]string{
		"Recipient": recipient,
		"Course":    course,
		"Number":    number,
		"IssuedAt":  issuedAt.Format("January 2, 2006"),
		"VerifyURL": verifyURL,
	})
	return b.String()
}
