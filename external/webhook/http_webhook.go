package webhook

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"

	"github.com/foxseedlab/dailynotes/external/httpclient"
	"github.com/foxseedlab/dailynotes/internal/notify"
)

// HTTPSender posts the notes export as a multipart upload to a webhook URL.
type HTTPSender struct {
	http *httpclient.Client
}

func NewHTTPSender(webhookURL string, opts httpclient.Options) *HTTPSender {
	opts.BaseURL = webhookURL
	return &HTTPSender{http: httpclient.New(opts)}
}

func (s *HTTPSender) Name() string { return "webhook" }

func (s *HTTPSender) Publish(ctx context.Context, file notify.File) error {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if file.Message != "" {
		if err := w.WriteField("message", file.Message); err != nil {
			return err
		}
	}
	part, err := w.CreateFormFile("file", file.Name)
	if err != nil {
		return err
	}
	if _, err := part.Write(file.Body); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	_, err = s.http.Do(ctx, httpclient.Request{
		Method:      http.MethodPost,
		Body:        body.Bytes(),
		ContentType: w.FormDataContentType(),
	})
	return err
}
