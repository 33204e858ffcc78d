package room

type Member struct {
	Username string `redis:"username"`
	JoinedAt int64  `redis:"joined_at"`
}

type PlaylistItem struct {
	Title      string `redis:"title"`
	PlayStatus string `redis:"play_status"`
	CreatedAt  int64  `redis:"created_at"`
}

type VideoSource struct {
	PlaylistItemId string `redis:"playlist_item_id"`
	URL            string `redis:"url"`
	CreatedAt      int64  `redis:"created_at"`
	LastActiveAt   int64  `redis:"last_active_at"`
}

// PlaylistEntry is one member of a room playlist ordering, with the
// orderIndex taken from the sorted-set score.
type PlaylistEntry struct {
	PlaylistItemId string
	OrderIndex     int
}

type PlayStatus struct {
	Paused    bool    `redis:"paused"`
	Time      float64 `redis:"time"`
	Timestamp int64   `redis:"timestamp"`
	VideoId   string  `redis:"video_id"`
}
