package vkapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

type GroupService struct {
	client *Client
}

func NewGroupService(client *Client) *GroupService {
	return &GroupService{client: client}
}

// ResolveScreenName maps a screen name (e.g. "durov") to its numeric object.
// An unknown name yields nil without error.
func (s *GroupService) ResolveScreenName(ctx context.Context, screenName string) (*ResolvedObject, error) {
	params := url.Values{}
	params.Set("screen_name", screenName)

	raw, err := s.client.Get(ctx, "utils.resolveScreenName", params)
	if err != nil || raw == nil {
		return nil, err
	}

	// Unknown names come back as an empty array.
	if len(raw) > 0 && raw[0] == '[' {
		return nil, nil
	}

	var obj ResolvedObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, fmt.Errorf("%w: utils.resolveScreenName: %v", ErrMalformedResponse, err)
	}
	if obj.ObjectID == 0 {
		return nil, nil
	}

	return &obj, nil
}

// GetByID returns the first group groups.getById answers with. Both the
// legacy array payload and the newer {"groups": [...]} object are accepted.
func (s *GroupService) GetByID(ctx context.Context, groupID int64) (*Group, error) {
	params := url.Values{}
	params.Set("group_id", strconv.FormatInt(groupID, 10))

	raw, err := s.client.Get(ctx, "groups.getById", params)
	if err != nil || raw == nil {
		return nil, err
	}

	var groups []Group
	if len(raw) > 0 && raw[0] == '{' {
		var wrapped struct {
			Groups []Group `json:"groups"`
		}
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: groups.getById: %v", ErrMalformedResponse, err)
		}
		groups = wrapped.Groups
	} else if err := json.Unmarshal(raw, &groups); err != nil {
		return nil, fmt.Errorf("%w: groups.getById: %v", ErrMalformedResponse, err)
	}

	if len(groups) == 0 {
		return nil, nil
	}

	return &groups[0], nil
}
