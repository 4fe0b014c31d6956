package api_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"golang.org/x/text/language"

	"github.com/okian/ticketscan/internal/adapters/http/api"
	. "github.com/smartystreets/goconvey/convey"
)

func TestLocale(t *testing.T) {
	Convey("Given requests with language preferences", t, func() {
		cases := []struct {
			query, accept string
			want          language.Tag
		}{
			{"", "", language.English},
			{"zh", "", language.Chinese},
			{"", "ta-IN,en;q=0.5", language.Tamil},
			{"ms", "zh", language.Malay},
			{"fr", "", language.English},
			{"@@", "ms", language.Malay},
		}
		for _, c := range cases {
			req := httptest.NewRequest("GET", "/?lang="+c.query, nil)
			if c.query == "" {
				req = httptest.NewRequest("GET", "/", nil)
			}
			if c.accept != "" {
				req.Header.Set("Accept-Language", c.accept)
			}
			So(api.Locale(req), ShouldEqual, c.want)
		}
	})
}

func TestLocalize(t *testing.T) {
	Convey("Every message exists in every language", t, func() {
		keys := []string{"no_numeric_content", "classification_failed", "wrong_count", "ocr_unavailable", "internal_error"}
		for _, tag := range api.Languages {
			for _, k := range keys {
				So(api.Localize(tag, k), ShouldNotEqual, k)
			}
		}
	})
}

func TestKindError(t *testing.T) {
	Convey("Given a wrapped cause", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("upload ticket", api.ErrBadRequest, cause)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "upload ticket: bad request: boom")
		})

		Convey("And a bare kind has no cause", func() {
			bare := api.NewKind("read upload", api.ErrTooLarge)
			So(errors.Is(bare, api.ErrTooLarge), ShouldBeTrue)
			So(bare.Error(), ShouldEqual, "read upload: upload too large")
		})
	})
}
