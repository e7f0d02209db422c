// Package translations holds the static UI and message strings per locale.
package translations

import "rider/internal/rider-service/core/domain/model"

type Word struct {
	Text      string
	Highlight bool
}

type Placeholders struct {
	StartLocation       string
	DestinationLocation string
	DateTime            string
}

type Vehicles struct {
	Auto string
	Toto string
	Taxi string
	Car  string
}

func (v Vehicles) Label(t model.VehicleType) string {
	switch t {
	case model.VehicleToto:
		return v.Toto
	case model.VehicleTaxi:
		return v.Taxi
	case model.VehicleCar:
		return v.Car
	default:
		return v.Auto
	}
}

// Table is a plain value: callers get their own copy and can not alter
// another locale's strings.
type Table struct {
	Locale       model.Locale
	Words        [3]Word
	Placeholders Placeholders
	VehicleLabel string
	Vehicles     Vehicles
	Submit       string

	PopupTitle string
	English    string
	Bengali    string

	// Message uses {vehicle}, {start}, {destination} and {date}.
	Message         string
	InvalidSchedule string

	// DateLayout is a fmt pattern over weekday, day, month, year, time.
	DateLayout string
	Weekdays   [7]string
	Months     [12]string
	// Digits replaces ASCII digits when set.
	Digits [10]rune
}

var en = Table{
	Locale: model.LocaleEN,
	Words: [3]Word{
		{Text: "Welcome"},
		{Text: "to"},
		{Text: "Rider.", Highlight: true},
	},
	Placeholders: Placeholders{
		StartLocation:       "Start Location",
		DestinationLocation: "Destination Location",
		DateTime:            "Select Date & Time",
	},
	VehicleLabel: "Vehicle",
	Vehicles: Vehicles{
		Auto: "Auto",
		Toto: "Toto",
		Taxi: "Taxi",
		Car:  "Car",
	},
	Submit:          "Request Ride",
	PopupTitle:      "Choose Your Language",
	English:         "English",
	Bengali:         "Bengali",
	Message:         "Hello, I would like to book a {vehicle} from {start} to {destination} on {date}.",
	InvalidSchedule: "Please select a valid date and time.",
	DateLayout:      "%[1]s, %[2]s %[3]s %[4]s at %[5]s",
	Weekdays:        [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},
	Months: [12]string{
		"Jan", "Feb", "Mar", "Apr", "May", "Jun",
		"Jul", "Aug", "Sep", "Oct", "Nov", "Dec",
	},
}

var bn = Table{
	Locale: model.LocaleBN,
	Words: [3]Word{
		{Text: "স্বাগতম"},
		{Text: "আপনার", Highlight: true},
		{Text: "রাইডার এ।"},
	},
	Placeholders: Placeholders{
		StartLocation:       "শুরু স্থান",
		DestinationLocation: "গন্তব্য স্থান",
		DateTime:            "তারিখ এবং সময় নির্বাচন করুন",
	},
	VehicleLabel: "যানবাহন",
	Vehicles: Vehicles{
		Auto: "অটো",
		Toto: "টোটো",
		Taxi: "ট্যাক্সি",
		Car:  "গাড়ি",
	},
	Submit:          "অনুরোধ করুন",
	PopupTitle:      "Choose Your Language",
	English:         "English",
	Bengali:         "Bengali",
	Message:         "হ্যালো, আমি {date} তারিখে {start} থেকে {destination} পর্যন্ত একটি {vehicle} বুক করতে চাই।",
	InvalidSchedule: "অনুগ্রহ করে সঠিক তারিখ ও সময় নির্বাচন করুন।",
	DateLayout:      "%[1]s, %[2]s %[3]s %[4]s, %[5]s",
	Weekdays: [7]string{
		"রবিবার", "সোমবার", "মঙ্গলবার", "বুধবার", "বৃহস্পতিবার", "শুক্রবার", "শনিবার",
	},
	Months: [12]string{
		"জানুয়ারি", "ফেব্রুয়ারি", "মার্চ", "এপ্রিল", "মে", "জুন",
		"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
	},
	Digits: [10]rune{'০', '১', '২', '৩', '৪', '৫', '৬', '৭', '৮', '৯'},
}

// For returns the table of l, falling back to English.
func For(l model.Locale) Table {
	if l == model.LocaleBN {
		return bn
	}
	return en
}

// LocalizeDigits rewrites ASCII digits with the table's digit set.
func (t Table) LocalizeDigits(s string) string {
	if t.Digits[0] == 0 {
		return s
	}
	out := []rune(s)
	for i, r := range out {
		if r >= '0' && r <= '9' {
			out[i] = t.Digits[r-'0']
		}
	}
	return string(out)
}
