package tasks

import (
	"context"

	"github.com/lysyi3m/vk-comb/app/vkapi"
)

// WallReader is the subset of the wall API the tasks page through.
// *vkapi.WallService implements it.
type WallReader interface {
	GetPosts(ctx context.Context, ownerID int64, count, offset int) ([]vkapi.Post, error)
	GetComments(ctx context.Context, ownerID, postID int64, count, offset int) ([]vkapi.Comment, error)
	GetComment(ctx context.Context, ownerID, commentID int64) (*vkapi.Comment, error)
}

type GroupReader interface {
	ResolveScreenName(ctx context.Context, screenName string) (*vkapi.ResolvedObject, error)
	GetByID(ctx context.Context, groupID int64) (*vkapi.Group, error)
}

type AlbumReader interface {
	GetAlbums(ctx context.Context, ownerID int64, opts vkapi.AlbumOptions, count, offset int) ([]vkapi.Album, error)
}
