package notification

import "fmt"

// EventDetails carries the event fields message templates interpolate.
type EventDetails struct {
	Name     string
	FromDate string
	ToDate   string
	Time     string
}

// VenueDetails carries the venue descriptor used in invitation messages.
type VenueDetails struct {
	Name    string
	Address string
	City    string
	State   string
	Pincode string
	Website string
}

// Templates holds the pre-rendered message bodies for one dispatch. The
// dispatcher only substitutes per-recipient addressing; all event/venue
// interpolation happens up front so every channel sends consistent text.
type Templates struct {
	EmailSubject string
	EmailText    string
	SMSText      string
	NotifyText   string
}

// RenderInvite builds the invitation templates for all three channels.
func RenderInvite(event EventDetails, venue VenueDetails) Templates {
	details := fmt.Sprintf(
		"You have been invited to %s on %s at %s. Venue details are as follows: %s %s %s %s %s website: %s",
		event.Name, event.FromDate, event.Time,
		venue.Name, venue.Address, venue.City, venue.State, venue.Pincode, venue.Website,
	)
	return Templates{
		EmailSubject: fmt.Sprintf("Invite for %s", event.Name),
		EmailText:    details,
		SMSText:      details,
		NotifyText:   fmt.Sprintf("You have been invited to %s. Please check invited events for more details.", event.Name),
	}
}
