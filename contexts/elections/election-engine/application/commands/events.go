package commands

import (
	"encoding/json"
	"time"

	"ballotbox/contexts/elections/election-engine/ports"
)

// newElectionEnvelope builds canonical envelopes for command-produced events.
// The election id is the partition key so per-election ordering survives the
// broker.
func newElectionEnvelope(
	eventID string,
	eventType string,
	electionID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:       eventID,
		EventType:     eventType,
		OccurredAt:    occurredAt.UTC(),
		SourceService: "election-engine",
		SchemaVersion: 1,
		PartitionKey:  electionID,
		Data:          payload,
	}, nil
}
