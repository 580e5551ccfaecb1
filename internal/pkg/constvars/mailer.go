package constvars

const (
	EmailSubjectAppointmentStatusFormat = "[CLINIC] Your appointment is now %s"
	EmailMessageTypeHeader              = "message_type"
	EmailRequeueStrategyHeader          = "requeue_strategy"
	EmailMessageTypeJSON                = "JSON"
	EmailRequeueStrategyDrop            = "DROP"
)

// EmailAppointmentStatusTemplate is rendered with html/template, so every
// value is escaped before it reaches the mail body.
const EmailAppointmentStatusTemplate = `<html><body>
<p>Hello <strong>{{.PatientName}}</strong>,</p>
<p>Your appointment at <strong>{{.ClinicName}}</strong> on {{.Date}} at {{.Time}} is now <strong>{{.Status}}</strong>.</p>
{{if .Reason}}<p>Reason: {{.Reason}}</p>{{end}}
<p>Thank you.</p>
</body></html>`
