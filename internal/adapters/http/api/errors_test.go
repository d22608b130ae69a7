package api

import (
	"errors"
	"net/http"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/dugout/internal/adapters/repository"
	service "github.com/okian/dugout/internal/app"
)

func TestErrorWrapping(t *testing.T) {
	convey.Convey("Given op-wrapped errors", t, func() {
		cause := errors.New("boom")

		convey.Convey("Then kinds and causes stay matchable", func() {
			err := WrapKind("api.op", ErrBadRequest, cause)
			convey.So(errors.Is(err, ErrBadRequest), convey.ShouldBeTrue)
			convey.So(errors.Is(err, cause), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldEqual, "api.op: bad request: boom")
		})

		convey.Convey("Then Wrap of nil is nil", func() {
			convey.So(Wrap("api.op", nil), convey.ShouldBeNil)
		})

		convey.Convey("Then WrapKind of nil is the bare kind", func() {
			err := WrapKind("api.op", ErrConflict, nil)
			convey.So(errors.Is(err, ErrConflict), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldEqual, "api.op: conflict")
		})
	})
}

func TestClassify(t *testing.T) {
	convey.Convey("Given upstream errors wrapped by a handler", t, func() {
		cases := []struct {
			err    error
			status int
			code   string
		}{
			{Wrap("op", service.ErrInvalidInput), http.StatusBadRequest, "bad_request"},
			{Wrap("op", repository.ErrInvalidRecord), http.StatusBadRequest, "bad_request"},
			{Wrap("op", repository.ErrNotFound), http.StatusNotFound, "not_found"},
			{Wrap("op", repository.ErrDuplicate), http.StatusConflict, "conflict"},
			{Wrap("op", service.ErrBackpressure), http.StatusTooManyRequests, "backpressure"},
			{Wrap("op", service.ErrUnavailable), http.StatusServiceUnavailable, "unavailable"},
			{Wrap("op", errors.New("boom")), http.StatusInternalServerError, "internal_error"},
		}
		for _, c := range cases {
			status, code := classify(c.err)
			convey.So(status, convey.ShouldEqual, c.status)
			convey.So(code, convey.ShouldEqual, c.code)
		}
	})
}

func TestSessionRequest(t *testing.T) {
	convey.Convey("Given a session request", t, func() {
		convey.Convey("When the hand is omitted", func() {
			s, err := sessionRequest{PlayerID: " ana ", Date: "2026-05-18T09:30:00Z"}.toSession()

			convey.Convey("Then it is left for the store to fill from the roster", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.PlayerID, convey.ShouldEqual, "ana")
				convey.So(string(s.BatterHand), convey.ShouldBeEmpty)
				convey.So(s.Date.Hour(), convey.ShouldEqual, 9)
			})
		})

		convey.Convey("When the date is empty", func() {
			s, err := sessionRequest{PlayerID: "ana"}.toSession()

			convey.Convey("Then the date is left unset", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.Date.IsZero(), convey.ShouldBeTrue)
			})
		})
	})
}
