package chess

import (
	"bytes"
	"encoding/json"

	"github.com/go-faster/errors"
)

// MembersShape tags which layout the club members payload arrived in.
type MembersShape int

const (
	// MembersUnrecognized is any object without a known activity key, or a
	// scalar. It is read as zero members.
	MembersUnrecognized MembersShape = iota
	// MembersGrouped is an object holding weekly/monthly/all_time lists.
	MembersGrouped
	// MembersList is a bare top-level array.
	MembersList
)

func (s MembersShape) String() string {
	switch s {
	case MembersGrouped:
		return "grouped"
	case MembersList:
		return "list"
	default:
		return "unrecognized"
	}
}

// ClubMembersPayload is the decoded /club/{url_id}/members body.
type ClubMembersPayload struct {
	Shape   MembersShape
	Weekly  []any
	Monthly []any
	AllTime []any
	List    []any
}

// Members flattens the payload into one ordered sequence: weekly, monthly,
// then all_time for grouped payloads.
func (p ClubMembersPayload) Members() []any {
	switch p.Shape {
	case MembersGrouped:
		out := make([]any, 0, len(p.Weekly)+len(p.Monthly)+len(p.AllTime))
		out = append(out, p.Weekly...)
		out = append(out, p.Monthly...)
		return append(out, p.AllTime...)
	case MembersList:
		return p.List
	default:
		return []any{}
	}
}

// DecodeClubMembers inspects the top-level JSON value and decodes it into
// the matching variant. Only invalid JSON is an error.
func DecodeClubMembers(raw []byte) (ClubMembersPayload, error) {
	trimmed := bytes.TrimSpace(raw)
	if !json.Valid(trimmed) {
		return ClubMembersPayload{}, errors.New("club members: invalid JSON body")
	}

	switch trimmed[0] {
	case '[':
		var list []any
		if err := decodeNumbers(trimmed, &list); err != nil {
			return ClubMembersPayload{}, errors.Wrap(err, "club members list")
		}
		return ClubMembersPayload{Shape: MembersList, List: list}, nil
	case '{':
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &fields); err != nil {
			return ClubMembersPayload{}, errors.Wrap(err, "club members object")
		}
		p := ClubMembersPayload{Shape: MembersUnrecognized}
		for key, dst := range map[string]*[]any{
			"weekly":   &p.Weekly,
			"monthly":  &p.Monthly,
			"all_time": &p.AllTime,
		} {
			v, ok := fields[key]
			if !ok {
				continue
			}
			p.Shape = MembersGrouped
			*dst = memberList(v)
		}
		return p, nil
	default:
		return ClubMembersPayload{Shape: MembersUnrecognized}, nil
	}
}

// memberList reads one activity bucket. Anything other than an array
// (null included) is an empty bucket.
func memberList(v json.RawMessage) []any {
	var list []any
	if err := decodeNumbers(v, &list); err != nil {
		return nil
	}
	return list
}

func decodeNumbers(b []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	return dec.Decode(v)
}
