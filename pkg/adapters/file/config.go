package file

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/patterflow/patter/pkg/domain"
)

// Config DTOs mirror the authoring format verbatim. Delays are authored in
// milliseconds; conversion to time.Duration happens at this boundary only.

type sequenceConfig struct {
	SequenceID  string          `mapstructure:"sequenceId"`
	Name        string          `mapstructure:"name"`
	Description string          `mapstructure:"description"`
	Messages    []messageConfig `mapstructure:"messages"`
}

type messageConfig struct {
	ID              string         `mapstructure:"id"`
	Type            string         `mapstructure:"type"`
	Text            string         `mapstructure:"text"`
	Delay           *int           `mapstructure:"delay"`
	NextMessageID   string         `mapstructure:"nextMessageId"`
	StoreKey        string         `mapstructure:"storeKey"`
	PlaceholderText string         `mapstructure:"placeholderText"`
	ImagePath       string         `mapstructure:"imagePath"`
	ContentKey      string         `mapstructure:"contentKey"`
	Choices         []choiceConfig `mapstructure:"choices"`
	Routes          []routeConfig  `mapstructure:"routes"`
	Action          *actionConfig  `mapstructure:"action"`
}

type choiceConfig struct {
	Text          string `mapstructure:"text"`
	Value         any    `mapstructure:"value"`
	NextMessageID string `mapstructure:"nextMessageId"`
	SequenceID    string `mapstructure:"sequenceId"`
	ContentKey    string `mapstructure:"contentKey"`
}

type routeConfig struct {
	Condition     string `mapstructure:"condition"`
	NextMessageID string `mapstructure:"nextMessageId"`
	SequenceID    string `mapstructure:"sequenceId"`
	IsDefault     bool   `mapstructure:"isDefault"`
}

type actionConfig struct {
	Type  string         `mapstructure:"type"`
	Key   string         `mapstructure:"key"`
	Value any            `mapstructure:"value"`
	Event string         `mapstructure:"event"`
	Data  map[string]any `mapstructure:"data"`
}

// ParseSequence decodes one authored sequence from YAML or JSON bytes
// (yaml.v3 accepts both). The result is converted to the domain model but
// not yet validated.
func ParseSequence(data []byte) (*domain.Sequence, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse sequence config: %w", err)
	}

	var cfg sequenceConfig
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &cfg,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode sequence config: %w", err)
	}

	return cfg.toDomain(), nil
}

func (c *sequenceConfig) toDomain() *domain.Sequence {
	seq := &domain.Sequence{
		ID:          c.SequenceID,
		Name:        c.Name,
		Description: c.Description,
		Messages:    make([]domain.Message, 0, len(c.Messages)),
	}
	for _, m := range c.Messages {
		seq.Messages = append(seq.Messages, m.toDomain())
	}
	return seq
}

func (c *messageConfig) toDomain() domain.Message {
	msg := domain.Message{
		ID:            c.ID,
		Type:          domain.MessageType(c.Type),
		Text:          c.Text,
		NextMessageID: c.NextMessageID,
		StoreKey:      c.StoreKey,
		Placeholder:   c.PlaceholderText,
		ImagePath:     c.ImagePath,
		ContentKey:    c.ContentKey,
	}
	if c.Delay != nil {
		msg.Delay = time.Duration(*c.Delay) * time.Millisecond
		msg.HasExplicitDelay = true
	}
	for _, ch := range c.Choices {
		msg.Choices = append(msg.Choices, domain.Choice{
			Text:          ch.Text,
			Value:         ch.Value,
			NextMessageID: ch.NextMessageID,
			SequenceID:    ch.SequenceID,
			ContentKey:    ch.ContentKey,
		})
	}
	for _, r := range c.Routes {
		msg.Routes = append(msg.Routes, domain.RouteCondition{
			Condition:     r.Condition,
			NextMessageID: r.NextMessageID,
			SequenceID:    r.SequenceID,
			IsDefault:     r.IsDefault,
		})
	}
	if c.Action != nil {
		msg.Action = &domain.DataAction{
			Type:  domain.ActionType(c.Action.Type),
			Key:   c.Action.Key,
			Value: c.Action.Value,
			Event: c.Action.Event,
			Data:  c.Action.Data,
		}
	}
	return msg
}
