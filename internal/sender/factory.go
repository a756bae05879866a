package sender

import (
	"fmt"
	"strings"

	"platformagent/internal/config"
	"platformagent/internal/logger"
)

// NewSender creates a Sender based on the configuration.
func NewSender(cfg *config.Config) (Sender, error) {
	log := logger.WithComponent("sender-factory")

	senderType := strings.ToLower(cfg.SenderType)
	if senderType == "" {
		senderType = "statedb"
	}

	log.Info().
		Str("sender_type", senderType).
		Msg("Creating sender")

	switch senderType {
	case "statedb":
		return NewStateDBSender(cfg.StateDB, cfg.SOCKSProxy)
	case "kafka":
		return NewKafkaSender(cfg.Kafka, cfg.SOCKSProxy)
	case "file":
		return NewFileSender(cfg.File)
	default:
		return nil, fmt.Errorf("unknown sender type: %s (supported: statedb, kafka, file)", senderType)
	}
}
