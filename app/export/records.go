package export

import (
	"strconv"
	"time"
)

// PostRow is an exported wall post. JSON carries every field; CSV and
// tables use PostSchema.
type PostRow struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	Timestamp int64  `json:"timestamp"`
	Text      string `json:"text"`
	Likes     int    `json:"likes"`
	Reposts   int    `json:"reposts"`
	Comments  int    `json:"comments"`
	URL       string `json:"url"`
}

var PostSchema = Schema[PostRow]{
	Title: "VK wall posts",
	Noun:  "posts",
	Columns: []Column[PostRow]{
		{Key: "date", Label: "Date", Value: func(r PostRow) string { return r.Date }},
		{Key: "text", Label: "Text", Body: true, Value: func(r PostRow) string { return r.Text }},
		{Key: "likes", Label: "Likes", Value: func(r PostRow) string { return strconv.Itoa(r.Likes) }},
		{Key: "reposts", Label: "Reposts", Value: func(r PostRow) string { return strconv.Itoa(r.Reposts) }},
		{Key: "comments", Label: "Comments", Value: func(r PostRow) string { return strconv.Itoa(r.Comments) }},
		{Key: "url", Label: "URL", Value: func(r PostRow) string { return r.URL }},
	},
}

// CheckRow is the latest post of one community.
type CheckRow struct {
	PostText  string `json:"post_text"`
	GroupName string `json:"group_name"`
	GroupID   int64  `json:"group_id"`
	Likes     int    `json:"likes"`
	Reposts   int    `json:"reposts"`
}

var CheckSchema = Schema[CheckRow]{
	Title: "Latest posts in VK groups",
	Noun:  "groups",
	Columns: []Column[CheckRow]{
		{Key: "post_text", Label: "Post", Body: true, Value: func(r CheckRow) string { return r.PostText }},
		{Key: "group_name", Label: "Group name", Value: func(r CheckRow) string { return r.GroupName }},
		{Key: "group_id", Label: "Group ID", Value: func(r CheckRow) string { return strconv.FormatInt(r.GroupID, 10) }},
		{Key: "likes", Label: "Likes", Value: func(r CheckRow) string { return strconv.Itoa(r.Likes) }},
		{Key: "reposts", Label: "Reposts", Value: func(r CheckRow) string { return strconv.Itoa(r.Reposts) }},
	},
}

type GroupRow struct {
	Name string `json:"name"`
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

var GroupSchema = Schema[GroupRow]{
	Title: "VK groups",
	Noun:  "groups",
	Columns: []Column[GroupRow]{
		{Key: "name", Label: "Name", Value: func(r GroupRow) string { return r.Name }},
		{Key: "id", Label: "ID", Value: func(r GroupRow) string { return strconv.FormatInt(r.ID, 10) }},
		{Key: "type", Label: "Type", Value: func(r GroupRow) string { return r.Type }},
	},
}

// AlbumRow keeps absent description and dates as null in JSON.
type AlbumRow struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Size        int     `json:"size"`
	Created     *int64  `json:"created"`
	Updated     *int64  `json:"updated"`
	OwnerID     int64   `json:"owner_id"`
	ThumbID     int64   `json:"thumb_id"`
	ThumbSrc    string  `json:"thumb_src,omitempty"`
}

// AlbumSchema renders album dates in loc; missing dates become empty cells.
func AlbumSchema(loc *time.Location) Schema[AlbumRow] {
	formatDate := func(ts *int64) string {
		if ts == nil {
			return ""
		}
		return time.Unix(*ts, 0).In(loc).Format(timestampLayout)
	}

	return Schema[AlbumRow]{
		Title: "VK photo albums",
		Noun:  "albums",
		Columns: []Column[AlbumRow]{
			{Key: "id", Label: "ID", Value: func(r AlbumRow) string { return strconv.FormatInt(r.ID, 10) }},
			{Key: "title", Label: "Title", Value: func(r AlbumRow) string { return r.Title }},
			{Key: "description", Label: "Description", Body: true, Value: func(r AlbumRow) string {
				if r.Description == nil {
					return ""
				}
				return *r.Description
			}},
			{Key: "size", Label: "Size", Value: func(r AlbumRow) string { return strconv.Itoa(r.Size) }},
			{Key: "created", Label: "Created", Value: func(r AlbumRow) string { return formatDate(r.Created) }},
			{Key: "updated", Label: "Updated", Value: func(r AlbumRow) string { return formatDate(r.Updated) }},
			{Key: "owner_id", Label: "Owner ID", Value: func(r AlbumRow) string { return strconv.FormatInt(r.OwnerID, 10) }},
		},
	}
}
