// Package client implements the operation API over Google-style REST
// endpoints, where an operation is fetched with GET {endpoint}/{name} and
// returned as JSON.
package client

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/opwait/opwait/internal/operation"
	"github.com/opwait/opwait/internal/poller"
)

const defaultRequestTimeout = 30 * time.Second

// Config configures the REST operation client.
type Config struct {
	// Endpoint is the service base URL including the API version,
	// e.g. https://cloudfunctions.googleapis.com/v2.
	Endpoint string
	// Token, if set, is sent as a bearer token.
	Token string
	// RequestTimeout bounds a single GET. The poller owns retries and
	// the overall wait budget, so requests here are single-shot.
	RequestTimeout time.Duration
}

// Client fetches operations over REST. It implements the poller's API
// capability set for *operation.Operation.
type Client struct {
	http *resty.Client
	log  *zap.Logger
}

func New(cfg Config, log *zap.Logger) *Client {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	rest := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("User-Agent", "opwait")
	if cfg.Token != "" {
		rest.SetAuthToken(cfg.Token)
	}
	return &Client{http: rest, log: log}
}

// GetOperation fetches the current state of the named operation. A 404 maps
// to poller.ErrNotFound so the discovery phase can keep waiting for the
// operation record to propagate.
func (c *Client) GetOperation(ctx context.Context, name string) (*operation.Operation, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/" + strings.TrimLeft(name, "/"))
	if err != nil {
		return nil, errors.Wrapf(err, "getting operation %s", name)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, errors.Wrap(poller.ErrNotFound, name)
	}
	if resp.IsError() {
		return nil, errors.Errorf("getting operation %s: server returned %s", name, resp.Status())
	}
	c.log.Debug("Fetched operation", zap.String("operation", name), zap.Int("bytes", len(resp.Body())))
	return decodeOperation(resp.Body()), nil
}

// Done implements poller.API.
func (c *Client) Done(op *operation.Operation) bool {
	return op.Done
}

// Err implements poller.API.
func (c *Client) Err(op *operation.Operation) *operation.Status {
	return op.Error
}

// Stages implements poller.API.
func (c *Client) Stages(op *operation.Operation) []operation.StageInfo {
	return op.Stages()
}

// decodeOperation lifts the operation JSON into the local model. The payload
// is probed field by field rather than unmarshalled wholesale: metadata is an
// Any-typed proto whose extra fields (@type, per-service additions) must not
// break decoding, and error details hold arbitrary JSON of which only
// status-shaped entries are of interest.
func decodeOperation(body []byte) *operation.Operation {
	doc := gjson.ParseBytes(body)
	op := &operation.Operation{
		Name: doc.Get("name").String(),
		Done: doc.Get("done").Bool(),
	}
	if errField := doc.Get("error"); errField.Exists() {
		op.Error = decodeStatus(errField)
	}
	if stages := doc.Get("metadata.stages"); stages.Exists() {
		op.Metadata = &operation.Metadata{}
		stages.ForEach(func(_, stage gjson.Result) bool {
			op.Metadata.Stages = append(op.Metadata.Stages, decodeStage(stage))
			return true
		})
	}
	return op
}

func decodeStage(doc gjson.Result) operation.StageInfo {
	info := operation.StageInfo{
		Name:        doc.Get("name").String(),
		State:       operation.StageState(doc.Get("state").String()),
		Message:     doc.Get("message").String(),
		ResourceURI: doc.Get("resourceUri").String(),
	}
	doc.Get("stateMessages").ForEach(func(_, msg gjson.Result) bool {
		info.StateMessages = append(info.StateMessages, operation.StateMessage{
			Severity: msg.Get("severity").String(),
			Message:  msg.Get("message").String(),
		})
		return true
	})
	return info
}

// decodeStatus builds the recursive structured error. Details entries that
// don't look like a status (no code and no message) are skipped.
func decodeStatus(doc gjson.Result) *operation.Status {
	status := &operation.Status{
		Code:    int(doc.Get("code").Int()),
		Message: doc.Get("message").String(),
	}
	doc.Get("details").ForEach(func(_, detail gjson.Result) bool {
		if !detail.Get("code").Exists() && !detail.Get("message").Exists() {
			return true
		}
		status.Details = append(status.Details, decodeStatus(detail))
		return true
	})
	return status
}
