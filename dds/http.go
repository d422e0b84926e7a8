package dds

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"voyager.com/bridgebot/bridge"
	"voyager.com/bridgebot/logging"
)

var httpLogger = logging.GetZeroLogger("dds::http", nil)

var jsonIter = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPSolver talks to a BSOL-style double-dummy service over HTTP. The
// request carries the position in the two-character card encoding; the
// response lists (card, tricks) pairs for the seat on turn.
type HTTPSolver struct {
	url     string
	client  *http.Client
	timeout time.Duration
}

type solveRequest struct {
	Hands        map[string]string `json:"hands"`
	Trump        string            `json:"trump"`
	Leader       string            `json:"leader"`
	CurrentTrick []string          `json:"currentTrick"`
}

type solveResponse struct {
	Plays []struct {
		Card   string `json:"card"`
		Tricks int    `json:"tricks"`
	} `json:"plays"`
}

// NewHTTPSolver points at the solver endpoint. The timeout bounds each
// solve call in addition to any caller-provided context deadline.
func NewHTTPSolver(url string, timeout time.Duration) *HTTPSolver {
	return &HTTPSolver{
		url:     url,
		client:  &http.Client{Timeout: timeout},
		timeout: timeout,
	}
}

func (s *HTTPSolver) Solve(ctx context.Context, position Position) ([]CardTricks, error) {
	req := solveRequest{
		Hands:  make(map[string]string, 4),
		Trump:  position.Trump.String(),
		Leader: position.Leader.String(),
	}
	for _, seat := range bridge.Seats() {
		req.Hands[seat.String()] = position.Hands[seat].LIN()
	}
	for _, c := range position.CurrentTrick {
		req.CurrentTrick = append(req.CurrentTrick, c.String())
	}

	body, err := jsonIter.Marshal(&req)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to marshal solve request")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "Unable to build solve request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrTimeout
		}
		httpLogger.Warn().Err(err).Msg("Solver request failed")
		return nil, ErrUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		httpLogger.Warn().Int("status", resp.StatusCode).Msg("Solver returned non-OK status")
		return nil, ErrUnavailable
	}

	var decoded solveResponse
	if err := jsonIter.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "Unable to decode solve response")
	}

	result := make([]CardTricks, 0, len(decoded.Plays))
	for _, play := range decoded.Plays {
		card, err := bridge.NewCard(play.Card)
		if err != nil {
			return nil, fmt.Errorf("solver returned invalid card [%s]", play.Card)
		}
		result = append(result, CardTricks{Card: card, Tricks: play.Tricks})
	}
	return result, nil
}
