package errors_test

import (
	"fmt"
	"testing"

	uierrors "github.com/dalemusser/grampanchayat/internal/app/features/errors"
	"github.com/dalemusser/grampanchayat/internal/app/system/apiclient"
	"github.com/dalemusser/grampanchayat/internal/app/system/draft"
	"github.com/dalemusser/grampanchayat/internal/app/system/i18n"
)

func TestBannerMessage(t *testing.T) {
	tests := []struct {
		name string
		lang string
		err  error
		want string
	}{
		{"nil", "en", nil, ""},
		{"server verbatim", "mr", &apiclient.Error{Kind: apiclient.KindServer, Status: 400, Message: "Title is required"}, "Title is required"},
		{"network", "en", &apiclient.Error{Kind: apiclient.KindNetwork}, i18n.T("en", "msg.networkError")},
		{"network localized", "mr", &apiclient.Error{Kind: apiclient.KindNetwork}, i18n.T("mr", "msg.networkError")},
		{"auth", "en", &apiclient.Error{Kind: apiclient.KindAuth, Status: 401}, i18n.T("en", "msg.sessionExpired")},
		{"stale", "en", fmt.Errorf("update news: %w", draft.ErrStale), i18n.T("en", "msg.stale")},
		{"wrapped server", "en", fmt.Errorf("load: %w", &apiclient.Error{Kind: apiclient.KindServer, Status: 500}), "Internal Server Error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := uierrors.BannerMessage(tc.lang, tc.err); got != tc.want {
				t.Errorf("BannerMessage = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestNewErrorLogger_NilLogger(t *testing.T) {
	if uierrors.NewErrorLogger(nil).Log == nil {
		t.Error("expected a no-op logger")
	}
}
