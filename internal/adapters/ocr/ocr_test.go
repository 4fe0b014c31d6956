package ocr_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/okian/ticketscan/internal/adapters/ocr"
	"github.com/okian/ticketscan/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func encodedImage(t *testing.T, w, h int, format imaging.Format) []byte {
	t.Helper()
	img := imaging.New(w, h, color.White)
	for x := 0; x < w; x += 4 {
		img.Set(x, h/2, color.Black)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestPrepare(t *testing.T) {
	Convey("Given uploaded bytes", t, func() {
		Convey("When the image is a JPEG", func() {
			out, err := ocr.Prepare(encodedImage(t, 200, 100, imaging.JPEG))

			Convey("Then it is re-encoded as PNG at its own size", func() {
				So(err, ShouldBeNil)
				img, _, derr := image.Decode(bytes.NewReader(out))
				So(derr, ShouldBeNil)
				So(img.Bounds().Dx(), ShouldEqual, 200)
				So(img.Bounds().Dy(), ShouldEqual, 100)
				So(out[:4], ShouldResemble, []byte{0x89, 'P', 'N', 'G'})
			})
		})

		Convey("When the bytes are not an image", func() {
			_, err := ocr.Prepare([]byte("%PDF-1.4 not a photo"))

			Convey("Then the upload is rejected", func() {
				So(errors.Is(err, ocr.ErrUnsupportedImage), ShouldBeTrue)
			})
		})

		Convey("When nothing was uploaded", func() {
			_, err := ocr.Prepare(nil)

			Convey("Then ErrEmptyImage is returned", func() {
				So(errors.Is(err, ocr.ErrEmptyImage), ShouldBeTrue)
			})
		})
	})
}

func TestStatic(t *testing.T) {
	Convey("Given a static engine", t, func() {
		ctx := context.Background()
		engine := ocr.NewStatic("TOTO 01 05 12 23 34 45")

		Convey("Then it returns its text for any image", func() {
			text, err := engine.ExtractText(ctx, []byte{1})
			So(err, ShouldBeNil)
			So(text, ShouldEqual, "TOTO 01 05 12 23 34 45")
			So(engine.Close(), ShouldBeNil)
		})

		Convey("When configured with an error", func() {
			boom := errors.New("boom")
			engine.Err = boom
			_, err := engine.ExtractText(ctx, []byte{1})

			Convey("Then the error is returned", func() {
				So(errors.Is(err, boom), ShouldBeTrue)
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := engine.ExtractText(cctx, []byte{1})

			Convey("Then the context error is returned", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}

func TestTesseract_RejectsNonImages(t *testing.T) {
	Convey("Given a Tesseract engine", t, func() {
		engine := ocr.NewTesseract(ocr.WithConcurrency(1), ocr.WithWhitelist("0123456789"))

		Convey("When the upload is not an image", func() {
			_, err := engine.ExtractText(context.Background(), []byte("plain text"))

			Convey("Then it fails before reaching the engine", func() {
				So(errors.Is(err, ocr.ErrUnsupportedImage), ShouldBeTrue)
				So(engine.Close(), ShouldBeNil)
			})
		})
	})
}

func TestTesseract_EngineOutcomes(t *testing.T) {
	Convey("Given a Tesseract engine with a stubbed recognizer", t, func() {
		ctx := context.Background()
		photo := encodedImage(t, 40, 20, imaging.PNG)

		Convey("When the photo holds no readable text", func() {
			engine := ocr.NewTesseract(ocr.WithRecognizer(func([]byte) (string, error) { return " \n\t", nil }))
			text, err := engine.ExtractText(ctx, photo)

			Convey("Then the text is empty and the engine is not reported down", func() {
				So(err, ShouldBeNil)
				So(text, ShouldBeEmpty)
			})
		})

		Convey("When the engine fails", func() {
			engine := ocr.NewTesseract(
				ocr.WithLogger(nil),
				ocr.WithRecognizer(func([]byte) (string, error) { return "", errors.New("tessdata missing") }),
			)
			_, err := engine.ExtractText(ctx, photo)

			Convey("Then OCR is unavailable and a nil logger is ignored", func() {
				So(errors.Is(err, model.ErrOCRUnavailable), ShouldBeTrue)
			})
		})

		Convey("When text is recognized", func() {
			var got []byte
			engine := ocr.NewTesseract(ocr.WithRecognizer(func(png []byte) (string, error) {
				got = png
				return "4D 4109", nil
			}))
			text, err := engine.ExtractText(ctx, photo)

			Convey("Then the PNG reaches the recognizer and its text is returned", func() {
				So(err, ShouldBeNil)
				So(text, ShouldEqual, "4D 4109")
				So(got[:4], ShouldResemble, []byte{0x89, 'P', 'N', 'G'})
			})
		})
	})
}
