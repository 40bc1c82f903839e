package binder_test

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/reqbind/core/binder"
)

type feedbackForm struct {
	_         struct{} `bind:"default(form)"`
	Name      string   `form:"name"`
	Rating    int      `form:"rating"`
	Tags      []string `form:"tags"`
	Subscribe bool     `form:"subscribe"`
	Score     *float64 `form:"score"`
	Message   string
	Ref       string `query:"ref"`
}

func TestBind_URLEncodedForm(t *testing.T) {
	t.Parallel()

	plan := binder.MustCompile[feedbackForm]()

	tests := []struct {
		name        string
		contentType string
		body        string
		query       string
		want        feedbackForm
		wantErr     error
	}{
		{
			name:        "all fields",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=Ann&rating=5&tags=a,b&tags=c&subscribe=on&score=4.5&Message=hi%0Athere",
			query:       "ref=mail",
			want: feedbackForm{
				Name:      "Ann",
				Rating:    5,
				Tags:      []string{"a", "b", "c"},
				Subscribe: true,
				Score:     floatPtr(4.5),
				Message:   "hithere",
				Ref:       "mail",
			},
		},
		{
			name:        "charset parameter",
			contentType: "application/x-www-form-urlencoded; charset=utf-8",
			body:        "name=Bo",
			want:        feedbackForm{Name: "Bo"},
		},
		{
			name:        "invalid number",
			contentType: "application/x-www-form-urlencoded",
			body:        "rating=five",
			wantErr:     binder.ErrFailedToParseForm,
		},
		{
			name:        "malformed encoding",
			contentType: "application/x-www-form-urlencoded",
			body:        "name=%zz",
			wantErr:     binder.ErrFailedToParseForm,
		},
		{
			name:        "json body for form record",
			contentType: "application/json",
			body:        `{"name":"Ann"}`,
			wantErr:     binder.ErrContentTypeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			target := "/feedback"
			if tt.query != "" {
				target += "?" + tt.query
			}
			req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)

			got, err := plan.BindHTTP(req, nil)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)

				var decodeErr *binder.DecodeError
				require.ErrorAs(t, err, &decodeErr)
				assert.Equal(t, binder.Form, decodeErr.Origin)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBind_URLEncodedFormTooLarge(t *testing.T) {
	t.Parallel()

	plan := binder.MustCompile[feedbackForm](binder.WithMaxBodySize(32))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("name="+strings.Repeat("a", 64)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, err := plan.BindHTTP(req, nil)
	assert.ErrorIs(t, err, binder.ErrRequestBodyTooLarge)
}

type uploadForm struct {
	_      struct{}                `bind:"default(form)"`
	Title  string                  `form:"title"`
	Avatar *multipart.FileHeader   `form:"avatar"`
	Docs   []*multipart.FileHeader `form:"docs"`
	Owner  int64                   `path:"owner"`
}

type part struct {
	field    string
	filename string
	content  string
}

func multipartBody(t *testing.T, parts ...part) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		if p.filename == "" {
			require.NoError(t, mw.WriteField(p.field, p.content))
			continue
		}
		w, err := mw.CreateFormFile(p.field, p.filename)
		require.NoError(t, err)
		_, err = io.WriteString(w, p.content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestBind_MultipartForm(t *testing.T) {
	t.Parallel()

	plan := binder.MustCompile[uploadForm]()

	t.Run("values and files", func(t *testing.T) {
		t.Parallel()
		body, contentType := multipartBody(t,
			part{field: "title", content: "Report"},
			part{field: "avatar", filename: "../../etc/passwd", content: "root"},
			part{field: "docs", filename: "a.txt", content: "first"},
			part{field: "docs", filename: "b.txt", content: "second"},
		)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)

		got, err := plan.BindHTTP(req, binder.Params{"owner": "7"})
		require.NoError(t, err)
		require.NotNil(t, req.MultipartForm)
		t.Cleanup(func() { _ = req.MultipartForm.RemoveAll() })

		assert.Equal(t, "Report", got.Title)
		assert.Equal(t, int64(7), got.Owner)

		require.NotNil(t, got.Avatar)
		assert.Equal(t, "passwd", got.Avatar.Filename)

		require.Len(t, got.Docs, 2)
		assert.Equal(t, "a.txt", got.Docs[0].Filename)
		assert.Equal(t, "b.txt", got.Docs[1].Filename)

		f, err := got.Docs[1].Open()
		require.NoError(t, err)
		defer f.Close()
		data, err := io.ReadAll(f)
		require.NoError(t, err)
		assert.Equal(t, "second", string(data))
	})

	t.Run("missing boundary", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("--x--"))
		req.Header.Set("Content-Type", "multipart/form-data")

		_, err := plan.BindHTTP(req, nil)
		assert.ErrorIs(t, err, binder.ErrFailedToParseForm)
	})

	t.Run("body too large", func(t *testing.T) {
		t.Parallel()
		cfg := binder.DefaultConfig()
		cfg.MaxMultipartSize = 256
		small := binder.MustCompile[uploadForm](binder.WithConfig(cfg))

		body, contentType := multipartBody(t,
			part{field: "avatar", filename: "big.bin", content: strings.Repeat("x", 4096)},
		)
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)

		_, err := small.BindHTTP(req, nil)
		assert.ErrorIs(t, err, binder.ErrRequestBodyTooLarge)
	})
}

func TestBind_FormWithoutBody(t *testing.T) {
	t.Parallel()

	plan := binder.MustCompile[feedbackForm]()
	req := httptest.NewRequest(http.MethodGet, "/feedback?ref=home", nil)

	got, err := plan.BindHTTP(req, nil)
	require.NoError(t, err)
	assert.Equal(t, feedbackForm{Ref: "home"}, got)
}

func floatPtr(v float64) *float64 { return &v }
