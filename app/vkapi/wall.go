package vkapi

import (
	"context"
	"net/url"
	"strconv"
)

// WallService wraps the wall.* methods.
type WallService struct {
	client *Client
}

func NewWallService(client *Client) *WallService {
	return &WallService{client: client}
}

// GetPosts returns one page of an owner's wall, newest first. A nil slice
// means the API had no data for the request.
func (s *WallService) GetPosts(ctx context.Context, ownerID int64, count, offset int) ([]Post, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", strconv.Itoa(count))

	var page itemsPage[Post]
	ok, err := s.client.getInto(ctx, "wall.get", params, &page)
	if err != nil || !ok {
		return nil, err
	}

	return page.Items, nil
}

func (s *WallService) GetComments(ctx context.Context, ownerID, postID int64, count, offset int) ([]Comment, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("post_id", strconv.FormatInt(postID, 10))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", strconv.Itoa(count))

	var page itemsPage[Comment]
	ok, err := s.client.getInto(ctx, "wall.getComments", params, &page)
	if err != nil || !ok {
		return nil, err
	}

	return page.Items, nil
}

// GetComment fetches a single comment. wall.getComment answers with an
// items page holding the comment.
func (s *WallService) GetComment(ctx context.Context, ownerID, commentID int64) (*Comment, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("comment_id", strconv.FormatInt(commentID, 10))

	var page itemsPage[Comment]
	ok, err := s.client.getInto(ctx, "wall.getComment", params, &page)
	if err != nil || !ok || len(page.Items) == 0 {
		return nil, err
	}

	return &page.Items[0], nil
}
