package vkapi

import (
	"context"
	"net/url"
	"strconv"
)

type AlbumOptions struct {
	NeedSystem bool
	NeedCovers bool
}

type PhotoService struct {
	client *Client
}

func NewPhotoService(client *Client) *PhotoService {
	return &PhotoService{client: client}
}

func (s *PhotoService) GetAlbums(ctx context.Context, ownerID int64, opts AlbumOptions, count, offset int) ([]Album, error) {
	params := url.Values{}
	params.Set("owner_id", strconv.FormatInt(ownerID, 10))
	params.Set("offset", strconv.Itoa(offset))
	params.Set("count", strconv.Itoa(count))
	if opts.NeedSystem {
		params.Set("need_system", "1")
	}
	if opts.NeedCovers {
		params.Set("need_covers", "1")
	}

	var page itemsPage[Album]
	ok, err := s.client.getInto(ctx, "photos.getAlbums", params, &page)
	if err != nil || !ok {
		return nil, err
	}

	return page.Items, nil
}
