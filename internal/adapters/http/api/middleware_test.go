package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestErrorClass(t *testing.T) {
	Convey("Statuses map to error classes", t, func() {
		So(errorClass(http.StatusOK), ShouldEqual, "")
		So(errorClass(http.StatusBadRequest), ShouldEqual, "client_error")
		So(errorClass(http.StatusNotFound), ShouldEqual, "not_found")
		So(errorClass(http.StatusRequestEntityTooLarge), ShouldEqual, "too_large")
		So(errorClass(http.StatusUnprocessableEntity), ShouldEqual, "rejected")
		So(errorClass(http.StatusInternalServerError), ShouldEqual, "server_error")
		So(errorClass(http.StatusServiceUnavailable), ShouldEqual, "unavailable")
	})
}

func TestMetricsMiddleware(t *testing.T) {
	Convey("Given a wrapped handler", t, func() {
		h := MetricsMiddleware(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
			w.WriteHeader(http.StatusOK)
		}, "test")

		Convey("Then the first status written reaches the client", func() {
			w := httptest.NewRecorder()
			h(w, httptest.NewRequest(http.MethodGet, "/", nil))
			So(w.Code, ShouldEqual, http.StatusTeapot)
		})
	})
}
