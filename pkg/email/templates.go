package email

import (
	"fmt"
	"strings"
	"time"
)

// BookingEmailData contains the data needed for appointment booking emails.
type BookingEmailData struct {
	PatientName  string
	Email        string
	ClinicName   string
	ServiceName  string
	SessionNames []string
	StartsAt     time.Time
	AppName      string
}

// BuildBookingConfirmationEmail creates a confirmation email after appointments
// are booked, covering every session in the batch.
func BuildBookingConfirmationEmail(data BookingEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Cliniva"
	}

	patientName := data.PatientName
	if patientName == "" {
		patientName = "there"
	}

	subject := fmt.Sprintf("Your appointment at %s is confirmed", data.ClinicName)

	sessionLines := make([]string, 0, len(data.SessionNames))
	sessionItems := make([]string, 0, len(data.SessionNames))
	for _, name := range data.SessionNames {
		sessionLines = append(sessionLines, "  - "+name)
		sessionItems = append(sessionItems, "<li>"+name+"</li>")
	}

	textBody := fmt.Sprintf(`Hi %s,

Your booking at %s has been confirmed.

Service: %s
First visit: %s

Booked sessions:
%s

Thanks,
The %s Team`,
		patientName, data.ClinicName, data.ServiceName,
		data.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
		strings.Join(sessionLines, "\n"), appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>Your booking at <strong>%s</strong> has been confirmed.</p>
    <p>Service: <strong>%s</strong><br>First visit: <strong>%s</strong></p>
    <p>Booked sessions:</p>
    <ul>%s</ul>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		patientName, data.ClinicName, data.ServiceName,
		data.StartsAt.Format("Monday, 2 January 2006 at 15:04"),
		strings.Join(sessionItems, ""), appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// ClinicStatusEmailData contains the data for clinic lifecycle notifications.
type ClinicStatusEmailData struct {
	OwnerName  string
	Email      string
	ClinicName string
	OldStatus  string
	NewStatus  string
	Reason     string
	AppName    string
}

// BuildClinicStatusChangeEmail creates a notification email for clinic owners
// when their clinic changes status (activated, deactivated, suspended).
func BuildClinicStatusChangeEmail(data ClinicStatusEmailData) Message {
	appName := data.AppName
	if appName == "" {
		appName = "Cliniva"
	}

	ownerName := data.OwnerName
	if ownerName == "" {
		ownerName = "there"
	}

	subject := fmt.Sprintf("%s: clinic status changed to %s", appName, data.NewStatus)

	reasonText := ""
	reasonHTML := ""
	if data.Reason != "" {
		reasonText = fmt.Sprintf("\nReason: %s\n", data.Reason)
		reasonHTML = fmt.Sprintf("<p>Reason: <em>%s</em></p>", data.Reason)
	}

	textBody := fmt.Sprintf(`Hi %s,

The status of your clinic %q has changed from %s to %s.
%s
If you did not expect this change, please contact support.

Thanks,
The %s Team`,
		ownerName, data.ClinicName, data.OldStatus, data.NewStatus, reasonText, appName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #2563eb;">Hi %s,</h2>
    <p>The status of your clinic <strong>%s</strong> has changed from <strong>%s</strong> to <strong>%s</strong>.</p>
    %s
    <p>If you did not expect this change, please contact support.</p>
    <p style="color: #6b7280; font-size: 14px; margin-top: 30px;">Thanks,<br>The %s Team</p>
</body>
</html>`,
		ownerName, data.ClinicName, data.OldStatus, data.NewStatus, reasonHTML, appName)

	return Message{
		To:       []string{data.Email},
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}
