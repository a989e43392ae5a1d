package confirm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/obeidat/hrdesk/internal/domain"
)

// EncodeLeavePayload packs leave request parameters for staging.
func EncodeLeavePayload(typeID int, startDate, endDate string) string {
	return fmt.Sprintf("%d|%s|%s", typeID, startDate, endDate)
}

// DecodeLeavePayload unpacks a staged leave payload.
func DecodeLeavePayload(payload string) (typeID int, startDate, endDate string, err error) {
	parts := strings.Split(payload, "|")
	if len(parts) != 3 {
		return 0, "", "", fmt.Errorf("%w: leave payload has %d fields", domain.ErrProtocolDecode, len(parts))
	}
	if _, err := fmt.Sscanf(parts[0], "%d", &typeID); err != nil || typeID < 1 {
		return 0, "", "", fmt.Errorf("%w: bad leave type id %q", domain.ErrProtocolDecode, parts[0])
	}
	return typeID, parts[1], parts[2], nil
}

// EncodeOnboardPayload packs a staged new-hire record.
func EncodeOnboardPayload(ne domain.NewEmployee) (string, error) {
	data, err := json.Marshal(ne)
	if err != nil {
		return "", fmt.Errorf("encoding onboard payload: %w", err)
	}
	return string(data), nil
}

// DecodeOnboardPayload unpacks a staged new-hire record.
func DecodeOnboardPayload(payload string) (domain.NewEmployee, error) {
	var ne domain.NewEmployee
	if err := json.Unmarshal([]byte(payload), &ne); err != nil {
		return domain.NewEmployee{}, fmt.Errorf("%w: %v", domain.ErrProtocolDecode, err)
	}
	return ne, nil
}
