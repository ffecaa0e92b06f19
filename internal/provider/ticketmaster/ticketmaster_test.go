package ticketmaster

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/achadr/gigseeker/internal/domain"
)

func makeEvent(name, localDate, venueName, city, countryName string) tmEvent {
	var e tmEvent
	e.Name = name
	e.URL = "https://www.ticketmaster.com/event/x"
	e.Dates.Start.LocalDate = localDate
	var v tmVenue
	v.Name = venueName
	v.City.Name = city
	v.Country.Name = countryName
	e.Embedded.Venues = []tmVenue{v}
	return e
}

func TestSearchConvertsEvents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("apikey") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if r.URL.Query().Get("classificationName") != "music" {
			t.Errorf("classificationName = %q", r.URL.Query().Get("classificationName"))
		}
		if r.URL.Query().Get("countryCode") != "US" {
			t.Errorf("countryCode = %q", r.URL.Query().Get("countryCode"))
		}
		var resp searchResponse
		if r.URL.Query().Get("page") == "0" {
			resp.Embedded.Events = []tmEvent{
				makeEvent("Coldplay", "2026-09-12", "Madison Square Garden", "New York", "United States"),
			}
		}
		resp.Page.TotalElements = 42
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := New("key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	res, err := p.Search(context.Background(), domain.SearchParams{Artist: "Coldplay", Country: "USA"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Events) != 1 {
		t.Fatalf("got %d events, want 1", len(res.Events))
	}
	ev := res.Events[0]
	if ev.Date != "2026-09-12" {
		t.Errorf("date = %q", ev.Date)
	}
	if ev.Venue != "Madison Square Garden" {
		t.Errorf("venue = %q", ev.Venue)
	}
	if ev.Capacity != 20789 {
		t.Errorf("capacity = %d, want 20789", ev.Capacity)
	}
	if res.Total != 42 {
		t.Errorf("total = %d, want 42", res.Total)
	}
}

func TestSearchEventWithoutVenue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp searchResponse
		if r.URL.Query().Get("page") == "0" {
			var e tmEvent
			e.Name = "Secret Show"
			resp.Embedded.Events = []tmEvent{e}
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p := New("key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	res, err := p.Search(context.Background(), domain.SearchParams{Artist: "Coldplay"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ev := res.Events[0]
	if ev.Date != domain.UnknownDate || ev.Venue != domain.UnknownVenue || ev.City != domain.UnknownCity {
		t.Errorf("expected sentinels, got %+v", ev)
	}
	if ev.Capacity != 0 {
		t.Errorf("capacity = %d, want 0", ev.Capacity)
	}
}

func TestSearchMissingCredentials(t *testing.T) {
	p := New("")
	_, err := p.Search(context.Background(), domain.SearchParams{Artist: "Coldplay"})
	if !errors.Is(err, domain.ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestConvertEventCountryFromCode(t *testing.T) {
	e := makeEvent("Dua Lipa", "2026-03-01", "Koncertna Dvorana", "Pristina", "")
	e.Embedded.Venues[0].Country.CountryCode = "XK"
	if ev := convertEvent(e); ev.Country != domain.UnknownCountry {
		t.Errorf("country = %q, want %q for unmapped code", ev.Country, domain.UnknownCountry)
	}

	e.Embedded.Venues[0].Country.CountryCode = "FR"
	if ev := convertEvent(e); ev.Country != "France" {
		t.Errorf("country = %q, want France", ev.Country)
	}
}

func TestConvertEventNormalizesCountryName(t *testing.T) {
	e := makeEvent("Coldplay", "2026-09-12", "Madison Square Garden", "New York", "USA")
	if ev := convertEvent(e); ev.Country != "United States" {
		t.Errorf("country = %q, want United States", ev.Country)
	}
}
