package preview

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const page = `<!doctype html>
<html><head>
<title>  Learn Go  </title>
<meta property="og:title" content="OG title">
<meta property="og:description" content="From open graph">
<meta name="twitter:image" content="https://cdn.example/tw.png">
<meta property="og:image" content="https://cdn.example/og.png">
</head><body><p>hi</p></body></html>`

func TestExtract(t *testing.T) {
	tests := []struct {
		name            string
		doc             string
		wantTitle       string
		wantDescription string
		wantImage       string
	}{
		{
			name:            "title tag wins, og fallbacks used",
			doc:             page,
			wantTitle:       "Learn Go",
			wantDescription: "From open graph",
			wantImage:       "https://cdn.example/og.png",
		},
		{
			name:            "description meta preferred",
			doc:             `<html><head><meta name="Description" content="plain"><meta property="og:description" content="og"></head></html>`,
			wantDescription: "plain",
		},
		{
			name:      "og title when no title tag",
			doc:       `<html><head><meta property="og:title" content="Only OG"><meta name="twitter:image" content="tw.png"></head></html>`,
			wantTitle: "Only OG",
			wantImage: "tw.png",
		},
		{
			name: "nothing to find",
			doc:  `<p>plain text</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Extract(strings.NewReader(tt.doc))
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, p.Title)
			assert.Equal(t, tt.wantDescription, p.Description)
			assert.Equal(t, tt.wantImage, p.Image)
		})
	}
}

func TestService_Preview(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(page))
		case "/slow":
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(page))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	svc := NewService(Config{Timeout: 50 * time.Millisecond}, srv.Client(), zap.NewNop())
	ctx := context.Background()

	t.Run("fetches and caches", func(t *testing.T) {
		before := hits.Load()
		p := svc.Preview(ctx, srv.URL+"/ok")
		assert.Equal(t, "Learn Go", p.Title)
		assert.Equal(t, srv.URL+"/ok", p.URL)

		again := svc.Preview(ctx, srv.URL+"/ok")
		assert.Equal(t, p, again)
		assert.Equal(t, before+1, hits.Load())
	})

	t.Run("non-200 yields url only", func(t *testing.T) {
		p := svc.Preview(ctx, srv.URL+"/missing")
		assert.Equal(t, srv.URL+"/missing", p.URL)
		assert.Empty(t, p.Title)
	})

	t.Run("timeout yields url only", func(t *testing.T) {
		p := svc.Preview(ctx, srv.URL+"/slow")
		assert.Empty(t, p.Title)
		assert.Equal(t, srv.URL+"/slow", p.URL)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		before := hits.Load()
		p := svc.Preview(ctx, "file:///etc/passwd")
		assert.Equal(t, "file:///etc/passwd", p.URL)
		assert.Empty(t, p.Title)
		assert.Equal(t, before, hits.Load())
	})
}

func TestNewService_CopiesClient(t *testing.T) {
	shared := &http.Client{Timeout: time.Minute}

	svc := NewService(Config{Timeout: 50 * time.Millisecond}, shared, zap.NewNop())

	assert.Equal(t, time.Minute, shared.Timeout)
	assert.NotSame(t, shared, svc.client)
	assert.Equal(t, 50*time.Millisecond, svc.client.Timeout)
}
