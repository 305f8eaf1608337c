// Package templates provides email template components
package templates

import (
	"bytes"
	"html/template"
	"log"
)

type ButtonProps struct {
	Text            string
	URL             string
	BackgroundColor string
	TextColor       string
}

type buttonTemplateData struct {
	BackgroundColor string
	URL             string
	TextColor       string
	Text            string
}

type ReportCardProps struct {
	Domain       string
	ScoreDisplay string
	Summary      string
}

type PackageProps struct {
	PackageName     string
	BasePrice       string
	DiscountedPrice string
	DiscountCode    string
	Urgency         string
	Features        []string
}

// Compiled templates for email components
var (
	buttonTemplate = template.Must(template.New("emailButton").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" class="btn btn-primary" style="border-collapse: separate; box-sizing: border-box; width: 100%; min-width: 100%;" width="100%">
      <tbody>
        <tr>
          <td align="left" style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding-bottom: 16px;" valign="top">
            <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; width: auto;">
              <tbody>
                <tr>
                  <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; border-radius: 4px; text-align: center; background-color: {{.BackgroundColor}};" valign="top" align="center" bgcolor="{{.BackgroundColor}}">
                    <a href="{{.URL}}" target="_blank" style="border: solid 2px {{.BackgroundColor}}; border-radius: 4px; box-sizing: border-box; cursor: pointer; display: inline-block; font-size: 16px; font-weight: bold; margin: 0; padding: 12px 24px; text-decoration: none; background-color: {{.BackgroundColor}}; border-color: {{.BackgroundColor}}; color: {{.TextColor}};">{{.Text}}</a>
                  </td>
                </tr>
              </tbody>
            </table>
          </td>
        </tr>
      </tbody>
    </table>`))

	headingTemplate = template.Must(template.New("emailHeading").Parse(`<h2 style="font-family: Helvetica, sans-serif; font-size: 22px; font-weight: bold; margin: 0; margin-bottom: 16px;">{{.}}</h2>`))

	paragraphTemplate = template.Must(template.New("emailParagraph").Parse(`<p style="font-family: Helvetica, sans-serif; font-size: 16px; font-weight: normal; margin: 0; margin-bottom: 16px;">{{.}}</p>`))

	reportCardTemplate = template.Must(template.New("emailReportCard").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; background: #f4f5f6; border-radius: 8px; width: 100%; margin-bottom: 16px;" width="100%">
      <tbody>
        <tr>
          <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding: 16px;" valign="top">
            <p style="margin: 0; margin-bottom: 8px;"><strong>{{.Domain}}</strong> &mdash; score: <strong>{{.ScoreDisplay}}</strong>/100</p>
            <p style="margin: 0;">{{.Summary}}</p>
          </td>
        </tr>
      </tbody>
    </table>`))

	packageTemplate = template.Must(template.New("emailPackage").Parse(`
    <table role="presentation" border="0" cellpadding="0" cellspacing="0" style="border-collapse: separate; border: 1px solid #eaebed; border-radius: 8px; width: 100%; margin-bottom: 16px;" width="100%">
      <tbody>
        <tr>
          <td style="font-family: Helvetica, sans-serif; font-size: 16px; vertical-align: top; padding: 16px;" valign="top">
            <p style="margin: 0; margin-bottom: 8px; font-size: 18px;"><strong>{{.PackageName}}</strong></p>
            <p style="margin: 0; margin-bottom: 8px;"><span style="text-decoration: line-through; color: #9a9ea6;">${{.BasePrice}}</span> <strong>${{.DiscountedPrice}}</strong> with code <strong>{{.DiscountCode}}</strong></p>
            <p style="margin: 0; margin-bottom: 8px; color: #b91c1c;">{{.Urgency}}</p>
            <ul style="margin: 0; padding-left: 20px;">
              {{range .Features}}<li style="margin-bottom: 4px;">{{.}}</li>
              {{end}}
            </ul>
          </td>
        </tr>
      </tbody>
    </table>`))
)

func GetEmailButton(props ButtonProps) string {
	backgroundColor := props.BackgroundColor
	if backgroundColor == "" {
		backgroundColor = "#0867ec"
	}
	textColor := props.TextColor
	if textColor == "" {
		textColor = "#ffffff"
	}

	return executeTemplate(buttonTemplate, buttonTemplateData{
		BackgroundColor: backgroundColor,
		URL:             props.URL,
		TextColor:       textColor,
		Text:            props.Text,
	})
}

func GetEmailHeading(text string) string {
	return executeTemplate(headingTemplate, text)
}

func GetEmailParagraph(text string) string {
	return executeTemplate(paragraphTemplate, text)
}

func GetReportCard(props ReportCardProps) string {
	return executeTemplate(reportCardTemplate, props)
}

func GetPackageCard(props PackageProps) string {
	return executeTemplate(packageTemplate, props)
}

func executeTemplate(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Printf("Error executing email component template: %v", err)
		return ""
	}
	return buf.String()
}
