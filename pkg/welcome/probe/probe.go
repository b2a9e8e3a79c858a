/*
Copyright 2026 The Skaffold Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"

	"github.com/GoogleContainerTools/welcome/pkg/welcome/constants"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/instrumentation"
	"github.com/GoogleContainerTools/welcome/pkg/welcome/output/log"
)

// ContractError means a server answered but not with the root route's response.
type ContractError struct {
	URL    string
	Reason string
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%s: %s", e.URL, e.Reason)
}

// Prober checks that a URL serves the greeting.
type Prober struct {
	client  *http.Client
	backoff func() backoff.BackOff
}

func NewProber() *Prober {
	return &Prober{
		client: &http.Client{Timeout: 5 * time.Second},
		backoff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 100 * time.Millisecond
			b.MaxInterval = 2 * time.Second
			b.MaxElapsedTime = 0
			return b
		},
	}
}

// Check issues a single GET on url and verifies status, content type and body.
func (p *Prober) Check(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return backoff.Permanent(errors.Wrap(err, "creating request"))
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "requesting %s", url)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "reading response from %s", url)
	}

	switch {
	case resp.StatusCode != http.StatusOK:
		return &ContractError{URL: url, Reason: fmt.Sprintf("unexpected status %d", resp.StatusCode)}
	case resp.Header.Get("Content-Type") != constants.ContentTypeHTML:
		return &ContractError{URL: url, Reason: fmt.Sprintf("unexpected content type %q", resp.Header.Get("Content-Type"))}
	case string(body) != constants.Greeting:
		return &ContractError{URL: url, Reason: fmt.Sprintf("unexpected body %q", body)}
	}
	return nil
}

// WaitFor retries Check until it succeeds or timeout elapses. Connection errors
// are retried; a server answering with the wrong response fails immediately.
func (p *Prober) WaitFor(ctx context.Context, url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ctx = log.WithEventContext(ctx, constants.Probe, url)
	ctx, endTrace := instrumentation.StartTrace(ctx, "WaitFor", map[string]string{"url": url})
	defer endTrace()

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := p.Check(ctx, url)
		var contractErr *ContractError
		if errors.As(err, &contractErr) {
			return backoff.Permanent(err)
		}
		if err != nil {
			log.Entry(ctx).Debugf("attempt %d: %v", attempt, err)
		}
		return err
	}, backoff.WithContext(p.backoff(), ctx))
	if err != nil {
		if ctx.Err() != nil {
			// An interrupted or timed out probe is a failed health check, never a clean exit.
			return errors.Errorf("probing %s: not healthy after %d attempt(s): %v", url, attempt, err)
		}
		return errors.Wrapf(err, "probing %s", url)
	}

	log.Entry(ctx).Infof("%s is healthy after %d attempt(s)", url, attempt)
	return nil
}
