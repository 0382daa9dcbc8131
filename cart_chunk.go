package wavinfo

import (
	"bytes"
	"encoding/binary"
	"strings"

	"github.com/go-audio/riff"
)

const (
	cartVersionLen            = 4
	cartTitleLen              = 64
	cartArtistLen             = 64
	cartCutIDLen              = 64
	cartClientIDLen           = 64
	cartCategoryLen           = 64
	cartClassificationLen     = 64
	cartOutCueLen             = 64
	cartStartDateLen          = 10
	cartStartTimeLen          = 8
	cartEndDateLen            = 10
	cartEndTimeLen            = 8
	cartProducerAppIDLen      = 64
	cartProducerAppVersionLen = 64
	cartUserDefLen            = 64
	cartPostTimerCount        = 8
	cartReservedLen           = 276
	cartURLLen                = 1024
)

// Cart holds an AES46 radio traffic cart chunk.
type Cart struct {
	Version            string      `json:"version"`
	Title              string      `json:"title"`
	Artist             string      `json:"artist"`
	CutID              string      `json:"cut_id"`
	ClientID           string      `json:"client_id"`
	Category           string      `json:"category"`
	Classification     string      `json:"classification"`
	OutCue             string      `json:"out_cue"`
	StartDate          string      `json:"start_date"`
	StartTime          string      `json:"start_time"`
	EndDate            string      `json:"end_date"`
	EndTime            string      `json:"end_time"`
	ProducerAppID      string      `json:"producer_app_id"`
	ProducerAppVersion string      `json:"producer_app_version"`
	UserDef            string      `json:"user_def"`
	LevelReference     int32       `json:"level_reference"`
	PostTimers         []CartTimer `json:"post_timers,omitempty"`
	Reserved           []byte      `json:"-"`
	URL                string      `json:"url,omitempty"`
	TagText            string      `json:"tag_text,omitempty"`
}

// CartTimer is a cart post timer: a usage code such as SEGs or INTs and a
// sample offset.
type CartTimer struct {
	Usage string `json:"usage"`
	Value uint32 `json:"value"`
}

// DecodeCartChunk decodes a cart chunk into r.Cart.
func DecodeCartChunk(r *Reader, ch *riff.Chunk) error {
	if ch == nil {
		return errNilChunk
	}

	if r == nil {
		return errNilReader
	}

	if ch.ID != CIDCart {
		ch.Drain()
		return nil
	}

	buf, err := chunkBytes(ch)
	if err != nil {
		return err
	}

	r.Cart = parseCart(buf)

	return nil
}

func parseCart(buf []byte) *Cart {
	cart := &Cart{}
	offset := 0

	take := func(n int) []byte {
		out := make([]byte, n)
		if offset < len(buf) {
			end := min(offset+n, len(buf))
			copy(out, buf[offset:end])
		}

		offset += n

		return out
	}

	readFixedString := func(n int) string {
		s := nullTermStr(take(n))
		return strings.TrimRight(s, " ")
	}

	cart.Version = readFixedString(cartVersionLen)
	cart.Title = readFixedString(cartTitleLen)
	cart.Artist = readFixedString(cartArtistLen)
	cart.CutID = readFixedString(cartCutIDLen)
	cart.ClientID = readFixedString(cartClientIDLen)
	cart.Category = readFixedString(cartCategoryLen)
	cart.Classification = readFixedString(cartClassificationLen)
	cart.OutCue = readFixedString(cartOutCueLen)
	cart.StartDate = readFixedString(cartStartDateLen)
	cart.StartTime = readFixedString(cartStartTimeLen)
	cart.EndDate = readFixedString(cartEndDateLen)
	cart.EndTime = readFixedString(cartEndTimeLen)
	cart.ProducerAppID = readFixedString(cartProducerAppIDLen)
	cart.ProducerAppVersion = readFixedString(cartProducerAppVersionLen)
	cart.UserDef = readFixedString(cartUserDefLen)
	cart.LevelReference = int32(binary.LittleEndian.Uint32(take(4)))

	for i := 0; i < cartPostTimerCount; i++ {
		usage := take(4)
		value := binary.LittleEndian.Uint32(take(4))

		// unused timers have a zero usage code
		if bytes.Count(usage, []byte{0}) == len(usage) {
			continue
		}

		cart.PostTimers = append(cart.PostTimers, CartTimer{Usage: string(usage), Value: value})
	}

	cart.Reserved = take(cartReservedLen)

	if offset < len(buf) {
		cart.URL = readFixedString(cartURLLen)
	}

	if offset < len(buf) {
		cart.TagText = string(bytes.TrimRight(buf[offset:], "\x00"))
	}

	return cart
}

func (c *Cart) walkFields() []Field {
	fields := []Field{
		{Name: "version", Value: c.Version},
		{Name: "title", Value: c.Title},
		{Name: "artist", Value: c.Artist},
		{Name: "cut_id", Value: c.CutID},
		{Name: "client_id", Value: c.ClientID},
		{Name: "category", Value: c.Category},
		{Name: "classification", Value: c.Classification},
		{Name: "out_cue", Value: c.OutCue},
		{Name: "start_date", Value: c.StartDate},
		{Name: "start_time", Value: c.StartTime},
		{Name: "end_date", Value: c.EndDate},
		{Name: "end_time", Value: c.EndTime},
		{Name: "producer_app_id", Value: c.ProducerAppID},
		{Name: "producer_app_version", Value: c.ProducerAppVersion},
		{Name: "user_def", Value: c.UserDef},
		{Name: "level_reference", Value: c.LevelReference},
	}

	for _, t := range c.PostTimers {
		fields = append(fields, Field{Name: "post_timer_" + strings.TrimSpace(t.Usage), Value: t.Value})
	}

	if c.URL != "" {
		fields = append(fields, Field{Name: "url", Value: c.URL})
	}

	if c.TagText != "" {
		fields = append(fields, Field{Name: "tag_text", Value: c.TagText})
	}

	return fields
}
