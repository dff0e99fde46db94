package notifications

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/hotelbooking/backend/internal/models"
)

// email is a subject line and an HTML body rendered from booking details
type email struct {
	subject string
	body    *template.Template
}

var confirmationEmail = email{
	subject: "Your booking at %s is confirmed",
	body: template.Must(template.New("confirmation").Parse(`<p>Hello {{.Username}},</p>
<p>Your booking <strong>{{.BookingID}}</strong> is confirmed.</p>
<table>
<tr><td>Hotel</td><td>{{.HotelName}}, {{.City}}</td></tr>
<tr><td>Room</td><td>{{.RoomName}}</td></tr>
<tr><td>Check-in</td><td>{{.CheckIn}}</td></tr>
<tr><td>Check-out</td><td>{{.CheckOut}}</td></tr>
<tr><td>Guests</td><td>{{.Guests}}</td></tr>
<tr><td>Nights</td><td>{{.Nights}}</td></tr>
<tr><td>Total</td><td>{{.Total}}</td></tr>
</table>`)),
}

var reminderEmail = email{
	subject: "Your stay at %s starts tomorrow",
	body: template.Must(template.New("reminder").Parse(`<p>Hello {{.Username}},</p>
<p>This is a reminder that your stay at <strong>{{.HotelName}}</strong> in {{.City}} starts on {{.CheckIn}}.</p>
<p>Room: {{.RoomName}}, {{.Guests}} guest(s), {{.Nights}} night(s).</p>`)),
}

type emailData struct {
	Username  string
	BookingID string
	HotelName string
	City      string
	RoomName  string
	CheckIn   string
	CheckOut  string
	Guests    int
	Nights    int
	Total     string
}

// render builds the subject and body for a booking
func (e email) render(d *models.ReceiptDetails) (string, string, error) {
	data := emailData{
		Username:  d.Username,
		BookingID: d.Booking.ID,
		HotelName: d.HotelName,
		City:      d.City,
		RoomName:  d.RoomName,
		CheckIn:   d.Booking.CheckIn.Format(models.DateLayout),
		CheckOut:  d.Booking.CheckOut.Format(models.DateLayout),
		Guests:    d.Booking.Guests,
		Nights:    d.Booking.Nights,
		Total:     d.Booking.TotalPrice.String(),
	}

	var body bytes.Buffer
	if err := e.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s email: %w", e.body.Name(), err)
	}

	return fmt.Sprintf(e.subject, d.HotelName), body.String(), nil
}
