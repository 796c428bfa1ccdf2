package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/Ramsey-B/fern/pkg/fernclient"
	"github.com/Ramsey-B/fern/pkg/logging"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/relations"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	friends      []models.Friend
	total        int
	listErr      error
	lastQuery    fernclient.FriendQuery
	updateErr    error
	lastUpdate   models.FriendRequest
	petErr       error
	deletePetErr error
	getErr       error
	deleted      []string
	lastPet      models.PetRequest
	lastQuote    models.QuoteRequest
}

func (a *fakeAPI) ListFriends(ctx context.Context, q fernclient.FriendQuery) (models.Page[models.Friend], error) {
	a.lastQuery = q
	if a.listErr != nil {
		return models.Page[models.Friend]{}, a.listErr
	}
	return models.NewPage(a.friends, q.PageNr, q.PageSize, a.total), nil
}

func (a *fakeAPI) GetFriend(ctx context.Context, id string) (models.Friend, error) {
	if a.getErr != nil {
		return models.Friend{}, a.getErr
	}
	for _, f := range a.friends {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Friend{}, &fernclient.StatusError{StatusCode: http.StatusNotFound}
}

func (a *fakeAPI) UpdateFriend(ctx context.Context, id string, req models.FriendRequest) (models.Friend, error) {
	a.lastUpdate = req
	return models.Friend{ID: id}, a.updateErr
}

func (a *fakeAPI) CreatePet(ctx context.Context, req models.PetRequest) (models.Pet, error) {
	a.lastPet = req
	return models.Pet{ID: "p1"}, a.petErr
}

func (a *fakeAPI) DeletePet(ctx context.Context, id string) error {
	a.deleted = append(a.deleted, id)
	return a.deletePetErr
}

func (a *fakeAPI) CreateQuote(ctx context.Context, req models.QuoteRequest) (models.Quote, error) {
	a.lastQuote = req
	return models.Quote{ID: "q1"}, nil
}

func (a *fakeAPI) DeleteQuote(ctx context.Context, id string) error {
	a.deleted = append(a.deleted, id)
	return nil
}

func (a *fakeAPI) GetOverview(ctx context.Context, seeded bool) ([]models.OverviewRow, error) {
	return []models.OverviewRow{{Country: "Norway", City: "Bergen", Friends: 3, Pets: 4, Quotes: 1}}, nil
}

type fakeLoader struct {
	details fernclient.FriendDetails
	found   bool
	err     error
}

func (l fakeLoader) LoadDetails(ctx context.Context, parentID string, seeded bool) (fernclient.FriendDetails, bool, error) {
	return l.details, l.found, l.err
}

func newServer(t *testing.T, api *fakeAPI, loader fakeLoader) *echo.Echo {
	t.Helper()
	renderer, err := NewRenderer()
	require.NoError(t, err)

	e := echo.New()
	e.Renderer = renderer
	NewHandler(api, loader, Config{DefaultSeeded: true, PageSize: 10}, logging.Discard()).RegisterRoutes(e)
	return e
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func post(e *echo.Echo, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexRedirects(t *testing.T) {
	rec := get(newServer(t, &fakeAPI{}, fakeLoader{}), "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/friends?seeded=true", rec.Header().Get("Location"))
}

func TestListFriendsPages(t *testing.T) {
	api := &fakeAPI{
		friends: []models.Friend{{ID: "f1", FirstName: "Ada", LastName: "Lovelace", Address: &models.Address{City: "London"}}},
		total:   25,
	}
	rec := get(newServer(t, api, fakeLoader{}), "/friends?page=2&filter=ada&seeded=false")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, fernclient.FriendQuery{Seeded: false, Filter: "ada", PageNr: 1, PageSize: 10}, api.lastQuery)
	body := rec.Body.String()
	assert.Contains(t, body, "Ada Lovelace")
	assert.Contains(t, body, "London")
	assert.Contains(t, body, "Page 2 of 3")
	assert.Contains(t, body, "page=3")
}

func TestListFriendsApiFailure(t *testing.T) {
	rec := get(newServer(t, &fakeAPI{listErr: errors.New("boom")}, fakeLoader{}), "/friends")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "could not be loaded")
}

func TestFriendDetails(t *testing.T) {
	loader := fakeLoader{found: true, details: fernclient.FriendDetails{
		Friend:      models.Friend{ID: "f1", FirstName: "Ada", LastName: "Lovelace"},
		Pets:        []relations.Related{{ID: "p1", Kind: relations.KindPets, Title: "Rex", Subtitle: "dog", Detail: "happy"}},
		Quotes:      []relations.Related{},
		Diagnostics: []string{"quotes could not be loaded"},
	}}
	rec := get(newServer(t, &fakeAPI{}, loader), "/friends/f1")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Rex (dog, happy)")
	assert.Contains(t, body, "No quotes.")
	assert.Contains(t, body, "quotes could not be loaded")
}

func TestFriendDetailsNotFound(t *testing.T) {
	rec := get(newServer(t, &fakeAPI{}, fakeLoader{found: false}), "/friends/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No friend with id missing exists.")
}

func TestEditFriendPrefills(t *testing.T) {
	birthday := "1815-12-10"
	api := &fakeAPI{friends: []models.Friend{{ID: "f1", FirstName: "Ada", Birthday: &birthday, Address: &models.Address{City: "London"}}}}

	rec := get(newServer(t, api, fakeLoader{}), "/friends/f1/edit")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="1815-12-10"`)
	assert.Contains(t, rec.Body.String(), `value="London"`)

	rec = get(newServer(t, api, fakeLoader{}), "/friends/f2/edit")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveFriendRedirectsAndRemovesEmptyAddress(t *testing.T) {
	api := &fakeAPI{}
	rec := post(newServer(t, api, fakeLoader{}), "/friends/f1/edit?seeded=true", url.Values{
		"firstName": {"Ada"},
		"lastName":  {"King"},
		"email":     {"ada@example.com"},
	})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/friends/f1?seeded=true", rec.Header().Get("Location"))
	assert.Nil(t, api.lastUpdate.Address)
	assert.True(t, api.lastUpdate.RemoveAddress)
	assert.Nil(t, api.lastUpdate.Birthday)
}

func TestSaveFriendShowsFieldErrors(t *testing.T) {
	api := &fakeAPI{updateErr: &fernclient.ValidationError{
		StatusCode: http.StatusBadRequest,
		Fields: map[string][]string{
			"Email":           {"The email field is not a valid e-mail address."},
			"address.zipCode": {"The zipCode field is required."},
		},
	}}
	rec := post(newServer(t, api, fakeLoader{}), "/friends/f1/edit", url.Values{
		"firstName": {"Ada"},
		"email":     {"nope"},
		"city":      {"London"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "The email field is not a valid e-mail address.")
	assert.Contains(t, body, "The zipCode field is required.")
	assert.Contains(t, body, `value="nope"`)
	require.NotNil(t, api.lastUpdate.Address)
	assert.Equal(t, "London", api.lastUpdate.Address.City)
}

func TestAddPetValidationRendersDetails(t *testing.T) {
	api := &fakeAPI{petErr: &fernclient.ValidationError{Fields: map[string][]string{"name": {"The name field is required."}}}}
	loader := fakeLoader{found: true, details: fernclient.FriendDetails{Friend: models.Friend{ID: "f1"}, Pets: []relations.Related{}, Quotes: []relations.Related{}}}

	rec := post(newServer(t, api, loader), "/friends/f1/pets", url.Values{"kind": {"cat"}, "mood": {"lazy"}})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "The name field is required.")
	assert.Equal(t, "f1", api.lastPet.FriendID)
}

func TestAddQuoteLinksFriend(t *testing.T) {
	api := &fakeAPI{}
	rec := post(newServer(t, api, fakeLoader{}), "/friends/f1/quotes?seeded=false", url.Values{"quote": {" Hello "}, "author": {"Me"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, []string{"f1"}, api.lastQuote.FriendIDs)
	assert.Equal(t, "Hello", api.lastQuote.Quote)
	assert.False(t, api.lastQuote.Seeded)
}

func ownerWithPetAndQuote() []models.Friend {
	return []models.Friend{
		{ID: "f1", Pets: []models.Pet{{ID: "p9", FriendID: "f1"}}, Quotes: []models.Quote{{ID: "q9"}}},
		{ID: "f2"},
	}
}

func TestDeleteMissingPetStillRedirects(t *testing.T) {
	api := &fakeAPI{friends: ownerWithPetAndQuote(), deletePetErr: &fernclient.StatusError{StatusCode: http.StatusNotFound}}
	rec := post(newServer(t, api, fakeLoader{}), "/friends/f1/pets/p9/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	api.deletePetErr = &fernclient.StatusError{StatusCode: http.StatusInternalServerError}
	rec = post(newServer(t, api, fakeLoader{}), "/friends/f1/pets/p9/delete", url.Values{})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestDeleteChecksOwnership(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		deleted []string
	}{
		{"own pet", "/friends/f1/pets/p9/delete", []string{"p9"}},
		{"pet of another friend", "/friends/f2/pets/p9/delete", nil},
		{"unknown friend", "/friends/f3/pets/p9/delete", nil},
		{"linked quote", "/friends/f1/quotes/q9/delete", []string{"q9"}},
		{"quote of another friend", "/friends/f2/quotes/q9/delete", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{friends: ownerWithPetAndQuote()}
			rec := post(newServer(t, api, fakeLoader{}), tt.target, url.Values{})

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, tt.deleted, api.deleted)
		})
	}
}

func TestDeleteOwnerLookupFailure(t *testing.T) {
	api := &fakeAPI{friends: ownerWithPetAndQuote(), getErr: errors.New("connection refused")}
	rec := post(newServer(t, api, fakeLoader{}), "/friends/f1/pets/p9/delete", url.Values{})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Empty(t, api.deleted)
}

func TestOverview(t *testing.T) {
	rec := get(newServer(t, &fakeAPI{}, fakeLoader{}), "/overview")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Bergen")
}
