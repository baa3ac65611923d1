package tasks

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lysyi3m/vk-comb/app/vkapi"
)

type fakeWall struct {
	posts       []vkapi.Post
	comments    map[int64][]vkapi.Comment
	details     map[int64]*vkapi.Comment
	postsErr    error
	commentsErr map[int64]error
	malformed   map[int]bool
	offsets     []int
	postCalls   int
}

func page[T any](items []T, count, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	end := min(offset+count, len(items))
	return items[offset:end]
}

func (w *fakeWall) GetPosts(_ context.Context, _ int64, count, offset int) ([]vkapi.Post, error) {
	w.postCalls++
	w.offsets = append(w.offsets, offset)
	if w.postsErr != nil {
		return nil, w.postsErr
	}
	if w.malformed[offset] {
		return nil, fmt.Errorf("%w: items is not an array", vkapi.ErrMalformedResponse)
	}
	return page(w.posts, count, offset), nil
}

func (w *fakeWall) GetComments(_ context.Context, _ int64, postID int64, count, offset int) ([]vkapi.Comment, error) {
	if err := w.commentsErr[postID]; err != nil {
		return nil, err
	}
	return page(w.comments[postID], count, offset), nil
}

func (w *fakeWall) GetComment(_ context.Context, _ int64, commentID int64) (*vkapi.Comment, error) {
	if d, ok := w.details[commentID]; ok {
		return d, nil
	}
	return nil, errors.New("comment not found")
}

type fakeGroups struct {
	ids    map[string]int64
	groups map[int64]vkapi.Group
}

func (g *fakeGroups) ResolveScreenName(_ context.Context, name string) (*vkapi.ResolvedObject, error) {
	id, ok := g.ids[name]
	if !ok {
		return nil, nil
	}
	return &vkapi.ResolvedObject{ObjectID: id, Type: "group"}, nil
}

func (g *fakeGroups) GetByID(_ context.Context, id int64) (*vkapi.Group, error) {
	group, ok := g.groups[id]
	if !ok {
		return nil, nil
	}
	return &group, nil
}

type fakeAlbums struct {
	albums []vkapi.Album
	opts   vkapi.AlbumOptions
}

func (a *fakeAlbums) GetAlbums(_ context.Context, _ int64, opts vkapi.AlbumOptions, count, offset int) ([]vkapi.Album, error) {
	a.opts = opts
	return page(a.albums, count, offset), nil
}

type sleepRecorder struct {
	calls []time.Duration
}

func (s *sleepRecorder) Sleep(d time.Duration) {
	s.calls = append(s.calls, d)
}

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local)

func newTestEnv() (Env, *bytes.Buffer, *sleepRecorder) {
	out := &bytes.Buffer{}
	sleeper := &sleepRecorder{}
	return Env{
		Out:   out,
		Sleep: sleeper.Sleep,
		Now:   func() time.Time { return testNow },
		URLs:  vkapi.NewURLBuilder(""),
	}, out, sleeper
}

func newPost(id int64, date time.Time, text string, likes, reposts int) vkapi.Post {
	ts := date.Unix()
	return vkapi.Post{
		ID:       id,
		Date:     &ts,
		Text:     text,
		Likes:    &vkapi.Counter{Count: likes},
		Reposts:  &vkapi.Counter{Count: reposts},
		Comments: &vkapi.Counter{Count: 1},
	}
}

func newComment(id, fromID int64, text string) vkapi.Comment {
	return vkapi.Comment{ID: id, FromID: fromID, Text: text}
}
