package input

import (
	"errors"
	"fmt"
	"strconv"
)

// Message type tags.
const (
	TagWidget    = '1'
	TagTerritory = '2'
	TagDeselect  = '3'
)

var (
	ErrEmptyMessage     = errors.New("empty message")
	ErrUnknownTag       = errors.New("unknown message tag")
	ErrMalformedPayload = errors.New("malformed payload")
)

// Decode parses a wire message: a one character tag followed by its payload.
//
//	1<d>   widget click, single digit id
//	2<dd>  territory click, two digit zero padded id
//	3      deselect
//
// Characters beyond the payload are ignored.
func Decode(message string) (Command, error) {
	if len(message) == 0 {
		return nil, ErrEmptyMessage
	}
	payload := message[1:]
	switch message[0] {
	case TagWidget:
		if len(payload) < 1 {
			return nil, fmt.Errorf("widget message %q: %w", message, ErrMalformedPayload)
		}
		id, err := strconv.Atoi(payload[:1])
		if err != nil {
			return nil, fmt.Errorf("widget message %q: %w", message, ErrMalformedPayload)
		}
		return WidgetClick{ID: id}, nil
	case TagTerritory:
		if len(payload) < 2 {
			return nil, fmt.Errorf("territory message %q: %w", message, ErrMalformedPayload)
		}
		id, err := strconv.ParseUint(payload[:2], 10, 8)
		if err != nil {
			return nil, fmt.Errorf("territory message %q: %w", message, ErrMalformedPayload)
		}
		return TerritoryClick{CountryID: int(id)}, nil
	case TagDeselect:
		return Deselect{}, nil
	default:
		return nil, fmt.Errorf("message %q: %w", message, ErrUnknownTag)
	}
}

// Encode renders a command in the wire format understood by Decode.
func Encode(cmd Command) (string, error) {
	switch c := cmd.(type) {
	case WidgetClick:
		if c.ID < 0 || c.ID > 9 {
			return "", fmt.Errorf("widget id %d: %w", c.ID, ErrMalformedPayload)
		}
		return fmt.Sprintf("%c%d", TagWidget, c.ID), nil
	case TerritoryClick:
		if c.CountryID < 0 || c.CountryID > 99 {
			return "", fmt.Errorf("country id %d: %w", c.CountryID, ErrMalformedPayload)
		}
		return fmt.Sprintf("%c%02d", TagTerritory, c.CountryID), nil
	case Deselect:
		return string(rune(TagDeselect)), nil
	default:
		return "", fmt.Errorf("command %v: %w", cmd, ErrUnknownTag)
	}
}
