package httpapi_test

import (
	"net/http"
	"testing"

	httpapi "github.com/backgroundcheck/x24-platform/internal/http"
	"github.com/backgroundcheck/x24-platform/pkg/testutil"
)

func TestRouterProbes(t *testing.T) {
	router := httpapi.NewRouter()

	testutil.Given(t, "the assembled router", func(t *testing.T) {
		testutil.When(t, "probing /healthz", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/healthz"))

			testutil.Then(t, "it responds ok", func(t *testing.T) {
				if rr.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
				}
			})
		})

		testutil.When(t, "scraping /metrics", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/metrics"))

			testutil.Then(t, "the prometheus endpoint answers", func(t *testing.T) {
				if rr.Code != http.StatusOK {
					t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
				}
			})
		})

		testutil.When(t, "requesting an unknown route", func(t *testing.T) {
			rr := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/v1/unknown"))

			testutil.Then(t, "it responds not found", func(t *testing.T) {
				if rr.Code != http.StatusNotFound {
					t.Fatalf("expected status %d, got %d", http.StatusNotFound, rr.Code)
				}
			})
		})
	})
}
