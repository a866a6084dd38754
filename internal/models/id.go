package models

import (
	"strconv"
	"time"
)

// discordEpoch is the first millisecond of 2015, the origin of snowflake timestamps.
const discordEpoch = 1420070400000

// ID is a 64-bit platform snowflake (channel, guild, user, message or role).
type ID uint64

func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return ID(v), nil
}

func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// CreatedAt decodes the creation time embedded in the snowflake.
func (id ID) CreatedAt() time.Time {
	ms := int64(uint64(id)>>22) + discordEpoch
	return time.UnixMilli(ms).UTC()
}

// IDsFromStrings converts a list of snowflake strings, skipping malformed entries.
func IDsFromStrings(values []string) []ID {
	ids := make([]ID, 0, len(values))
	for _, v := range values {
		id, err := ParseID(v)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func IDsToStrings(ids []ID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
