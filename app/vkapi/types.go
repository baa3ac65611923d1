package vkapi

// Counter is the {"count": N} object VK uses for likes, reposts and comments.
type Counter struct {
	Count int `json:"count"`
}

func (c *Counter) value() int {
	if c == nil {
		return 0
	}
	return c.Count
}

// Post is a wall post. Engagement counters may be missing from the payload
// and read as zero through the accessors.
type Post struct {
	ID       int64    `json:"id"`
	OwnerID  int64    `json:"owner_id"`
	FromID   int64    `json:"from_id"`
	Date     *int64   `json:"date"`
	Text     string   `json:"text"`
	Likes    *Counter `json:"likes"`
	Reposts  *Counter `json:"reposts"`
	Comments *Counter `json:"comments"`
}

func (p Post) Timestamp() (int64, bool) {
	if p.Date == nil {
		return 0, false
	}
	return *p.Date, true
}

func (p Post) Body() string     { return p.Text }
func (p Post) LikeCount() int   { return p.Likes.value() }
func (p Post) RepostCount() int { return p.Reposts.value() }
func (p Post) CommentCount() int {
	return p.Comments.value()
}

type Comment struct {
	ID      int64    `json:"id"`
	FromID  int64    `json:"from_id"`
	PostID  int64    `json:"post_id"`
	OwnerID int64    `json:"owner_id"`
	Date    *int64   `json:"date"`
	Text    string   `json:"text"`
	Likes   *Counter `json:"likes,omitempty"`
}

func (c Comment) Timestamp() (int64, bool) {
	if c.Date == nil {
		return 0, false
	}
	return *c.Date, true
}

func (c Comment) Body() string     { return c.Text }
func (c Comment) LikeCount() int   { return c.Likes.value() }
func (c Comment) RepostCount() int { return 0 }

type Group struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ScreenName string `json:"screen_name"`
	Type       string `json:"type"`
}

// ResolvedObject is the result of utils.resolveScreenName.
type ResolvedObject struct {
	ObjectID int64  `json:"object_id"`
	Type     string `json:"type"`
}

type Album struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Size        int     `json:"size"`
	Created     *int64  `json:"created"`
	Updated     *int64  `json:"updated"`
	OwnerID     int64   `json:"owner_id"`
	ThumbID     int64   `json:"thumb_id"`
	ThumbSrc    string  `json:"thumb_src"`
}

type itemsPage[T any] struct {
	Count int `json:"count"`
	Items []T `json:"items"`
}
