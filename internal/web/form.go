package web

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/fernclient"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/labstack/echo/v4"
)

// friendForm is the edit form. Values are kept as typed so a rejected form
// can be shown again unchanged.
type friendForm struct {
	FirstName     string
	LastName      string
	Email         string
	Birthday      string
	StreetAddress string
	ZipCode       string
	City          string
	Country       string
}

// apiFields maps form inputs to the field names the api reports.
var apiFields = map[string]string{
	"firstName":     "firstName",
	"lastName":      "lastName",
	"email":         "email",
	"birthday":      "birthday",
	"streetAddress": "address.streetAddress",
	"zipCode":       "address.zipCode",
	"city":          "address.city",
	"country":       "address.country",
}

func bindFriendForm(c echo.Context) friendForm {
	value := func(name string) string {
		return strings.TrimSpace(c.FormValue(name))
	}
	return friendForm{
		FirstName:     value("firstName"),
		LastName:      value("lastName"),
		Email:         value("email"),
		Birthday:      value("birthday"),
		StreetAddress: value("streetAddress"),
		ZipCode:       value("zipCode"),
		City:          value("city"),
		Country:       value("country"),
	}
}

func formFromFriend(friend models.Friend) friendForm {
	form := friendForm{
		FirstName: friend.FirstName,
		LastName:  friend.LastName,
		Email:     friend.Email,
	}
	if friend.Birthday != nil {
		form.Birthday = *friend.Birthday
	}
	if a := friend.Address; a != nil {
		form.StreetAddress = a.StreetAddress
		form.ZipCode = a.ZipCode
		form.City = a.City
		form.Country = a.Country
	}
	return form
}

func (f friendForm) hasAddress() bool {
	return f.StreetAddress != "" || f.ZipCode != "" || f.City != "" || f.Country != ""
}

// request builds the update. An entirely empty address removes the stored one.
func (f friendForm) request(seeded bool) models.FriendRequest {
	req := models.FriendRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Seeded:    seeded,
	}
	if f.Birthday != "" {
		birthday := f.Birthday
		req.Birthday = &birthday
	}
	if f.hasAddress() {
		req.Address = &models.AddressRequest{
			StreetAddress: f.StreetAddress,
			ZipCode:       f.ZipCode,
			City:          f.City,
			Country:       f.Country,
		}
	} else {
		req.RemoveAddress = true
	}
	return req
}

// errors keys the api's field messages by form input name.
func (f friendForm) errors(ve *fernclient.ValidationError) map[string][]string {
	out := map[string][]string{}
	for input, field := range apiFields {
		if messages := ve.For(field); len(messages) > 0 {
			out[input] = messages
		}
	}
	return out
}
