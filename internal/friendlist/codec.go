// Package friendlist converts between the Friends property stored on a user
// record and an ordered slice of friends.
//
// The stored form joins entries with '|' and each entry's country and name
// with ';', e.g. "Canada;Cruz,Ted|USA;Clinton,Hillary".
package friendlist

import (
	"strings"

	"uk.co.dudmesh.napbook/internal/model"
)

const (
	EntrySeparator = "|"
	FieldSeparator = ";"
)

// Decode never fails: a missing or empty property is an empty list.
func Decode(raw string) []model.Friend {
	friends := []model.Friend{}
	if raw == "" {
		return friends
	}
	for _, entry := range strings.Split(raw, EntrySeparator) {
		if entry == "" {
			continue
		}
		fields := strings.SplitN(entry, FieldSeparator, 2)
		friend := model.Friend{Country: fields[0]}
		if len(fields) == 2 {
			friend.Name = fields[1]
		}
		friends = append(friends, friend)
	}
	return friends
}

func Encode(friends []model.Friend) string {
	sb := strings.Builder{}
	for i, friend := range friends {
		if i > 0 {
			sb.WriteString(EntrySeparator)
		}
		sb.WriteString(friend.Country)
		sb.WriteString(FieldSeparator)
		sb.WriteString(friend.Name)
	}
	return sb.String()
}

func Contains(friends []model.Friend, friend model.Friend) bool {
	for _, f := range friends {
		if f == friend {
			return true
		}
	}
	return false
}

// Append adds friend at the end unless it is already listed. The second
// result reports whether the list changed.
func Append(friends []model.Friend, friend model.Friend) ([]model.Friend, bool) {
	if Contains(friends, friend) {
		return friends, false
	}
	return append(friends, friend), true
}

// Remove drops every entry equal to friend and returns how many went.
func Remove(friends []model.Friend, friend model.Friend) ([]model.Friend, int) {
	kept := make([]model.Friend, 0, len(friends))
	for _, f := range friends {
		if f != friend {
			kept = append(kept, f)
		}
	}
	return kept, len(friends) - len(kept)
}

// Valid reports whether friend can be stored without corrupting the encoding.
func Valid(friend model.Friend) bool {
	return friend.Country != "" && friend.Name != "" &&
		!strings.ContainsAny(friend.Country, EntrySeparator+FieldSeparator) &&
		!strings.ContainsAny(friend.Name, EntrySeparator+FieldSeparator)
}
