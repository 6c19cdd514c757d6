package lookup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWeatherClient_Temperature(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "Berlin" {
			t.Errorf("q = %q, want Berlin", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("units = %q, want metric", got)
		}
		w.Write([]byte(`{"main":{"temp":27.3}}`))
	}))
	defer srv.Close()

	c := NewWeatherClient("key")
	c.SetBaseURL(srv.URL)
	temp, ok := c.Temperature(context.Background(), "Berlin")
	if !ok {
		t.Fatal("expected a reading")
	}
	if temp != 27.3 {
		t.Errorf("temp = %v, want 27.3", temp)
	}
}

func TestWeatherClient_Temperature_Failures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()
		c := NewWeatherClient("key")
		c.SetBaseURL(srv.URL)
		if _, ok := c.Temperature(context.Background(), "Berlin"); ok {
			t.Error("expected no reading on 500")
		}
	})

	t.Run("unreachable", func(t *testing.T) {
		c := NewWeatherClient("key")
		c.SetBaseURL("http://127.0.0.1:1")
		if _, ok := c.Temperature(context.Background(), "Berlin"); ok {
			t.Error("expected no reading on transport failure")
		}
	})
}

func TestWeatherClient_CityKnown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "Nowhere" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"main":{"temp":10}}`))
	}))
	defer srv.Close()

	c := NewWeatherClient("key")
	c.SetBaseURL(srv.URL)
	if !c.CityKnown(context.Background(), "Berlin") {
		t.Error("Berlin should be known")
	}
	if c.CityKnown(context.Background(), "Nowhere") {
		t.Error("Nowhere should be rejected on 404")
	}

	// Transport failure tolerates the city rather than blocking setup.
	c.SetBaseURL("http://127.0.0.1:1")
	if !c.CityKnown(context.Background(), "Berlin") {
		t.Error("transport failure should not reject the city")
	}
}

func TestFoodClient_Food(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("search_terms"); got != "banana" {
			t.Errorf("search_terms = %q, want banana", got)
		}
		w.Write([]byte(`{"products":[{"product_name":"Banana","nutriments":{"energy-kcal_100g":89}}]}`))
	}))
	defer srv.Close()

	c := NewFoodClient(nil)
	c.SetBaseURL(srv.URL)
	info, ok := c.Food(context.Background(), "banana")
	if !ok {
		t.Fatal("expected a product")
	}
	if info.Name != "Banana" || info.CaloriesPer100g != 89 {
		t.Errorf("info = %+v", info)
	}
}

func TestFoodClient_Food_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"products":[]}`))
	}))
	defer srv.Close()

	c := NewFoodClient(nil)
	c.SetBaseURL(srv.URL)
	if _, ok := c.Food(context.Background(), "xyzzy"); ok {
		t.Error("expected no product")
	}
}

type staticTranslator struct{ out string }

func (s staticTranslator) Translate(_ context.Context, _ string) (string, error) {
	return s.out, nil
}

func TestFoodClient_TranslatesQuery(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_terms")
		w.Write([]byte(`{"products":[{"product_name":"Banana","nutriments":{"energy-kcal_100g":89}}]}`))
	}))
	defer srv.Close()

	c := NewFoodClient(staticTranslator{out: "banana"})
	c.SetBaseURL(srv.URL)
	if _, ok := c.Food(context.Background(), "банан"); !ok {
		t.Fatal("expected a product")
	}
	if gotQuery != "banana" {
		t.Errorf("upstream query = %q, want translated banana", gotQuery)
	}
}

func TestExerciseClient_Exercise(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Api-Key"); got != "secret" {
			t.Errorf("X-Api-Key = %q, want secret", got)
		}
		if got := r.URL.Query().Get("activity"); got != "running" {
			t.Errorf("activity = %q, want running", got)
		}
		w.Write([]byte(`[{"name":"Running","calories_per_hour":600}]`))
	}))
	defer srv.Close()

	c := NewExerciseClient("secret", nil)
	c.SetBaseURL(srv.URL)
	info, ok := c.Exercise(context.Background(), "running")
	if !ok {
		t.Fatal("expected an activity")
	}
	if info.Name != "Running" || info.CaloriesPerHour != 600 {
		t.Errorf("info = %+v", info)
	}
}

func TestExerciseClient_UpstreamDownIsNotFound(t *testing.T) {
	c := NewExerciseClient("secret", nil)
	c.SetBaseURL("http://127.0.0.1:1")
	if _, ok := c.Exercise(context.Background(), "running"); ok {
		t.Error("expected miss on transport failure")
	}
}

func TestGoogleTranslator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("tl"); got != "en" {
			t.Errorf("tl = %q, want en", got)
		}
		w.Write([]byte(`[[["banana","банан",null,null,10]],null,"ru"]`))
	}))
	defer srv.Close()

	g := NewGoogleTranslator()
	g.SetBaseURL(srv.URL)
	out, err := g.Translate(context.Background(), "банан")
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if out != "banana" {
		t.Errorf("out = %q, want banana", out)
	}
}

func TestTranslateOrOriginal_FallsBack(t *testing.T) {
	g := NewGoogleTranslator()
	g.SetBaseURL("http://127.0.0.1:1")
	if got := translateOrOriginal(context.Background(), g, "банан"); got != "банан" {
		t.Errorf("got %q, want original text on failure", got)
	}
	if got := translateOrOriginal(context.Background(), nil, "apple"); got != "apple" {
		t.Errorf("got %q, want passthrough with nil translator", got)
	}
}
