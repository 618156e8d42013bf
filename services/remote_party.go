package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/encryptogroup/dp-KRE/metrics"
	"github.com/encryptogroup/dp-KRE/protocol"
)

// RemoteParty implements protocol.Party against a party HTTP endpoint.
// The coordinator's per-invocation timeout applies through the request
// context; a missed deadline surfaces as a timeout error and the
// coordinator treats the party as absent for that round.
type RemoteParty struct {
	endpoint string
	client   *http.Client
}

// NewRemoteParty creates a remote party for the given base endpoint, e.g.
// "http://localhost:9001". A nil client uses http.DefaultClient; request
// deadlines come from the invocation context, not the client.
func NewRemoteParty(endpoint string, client *http.Client) *RemoteParty {
	if client == nil {
		client = http.DefaultClient
	}
	return &RemoteParty{endpoint: endpoint, client: client}
}

// RespondToComparison implements protocol.Party over HTTP.
func (p *RemoteParty) RespondToComparison(ctx context.Context, round int, threshold uint64) (bool, error) {
	body, err := json.Marshal(CompareRequest{Round: round, Threshold: threshold})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint+"/party/compare", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			metrics.IncPartyTimeouts()
		}
		return false, fmt.Errorf("comparing against %s: %w", p.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("party %s returned status %d", p.endpoint, resp.StatusCode)
	}

	var compareResp CompareResponse
	if err := json.NewDecoder(resp.Body).Decode(&compareResp); err != nil {
		return false, fmt.Errorf("decoding response from %s: %w", p.endpoint, err)
	}
	return compareResp.Bit, nil
}

// RemoteParties creates one RemoteParty per endpoint, sharing the client.
func RemoteParties(endpoints []string, client *http.Client) []protocol.Party {
	parties := make([]protocol.Party, 0, len(endpoints))
	for _, ep := range endpoints {
		parties = append(parties, NewRemoteParty(ep, client))
	}
	return parties
}
