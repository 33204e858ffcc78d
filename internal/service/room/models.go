package room

const (
	PlayStatusNew      = "new"
	PlayStatusPlaying  = "playing"
	PlayStatusFinished = "finished"
)

type VideoSource struct {
	Id             string `json:"id"`
	PlaylistItemId string `json:"playlist_item_id"`
	URL            string `json:"url"`
	CreatedAt      int64  `json:"created_at"`
	LastActiveAt   int64  `json:"last_active_at"`
}

type PlaylistItem struct {
	Id         string        `json:"id"`
	RoomId     string        `json:"room_id"`
	Title      string        `json:"title"`
	OrderIndex int           `json:"order_index"`
	PlayStatus string        `json:"play_status"`
	CreatedAt  int64         `json:"created_at"`
	Sources    []VideoSource `json:"video_sources"`
}

// RoomPlayStatus is the authoritative shared playback state of a room. Time
// is only valid as written: the true position is time + (now - timestamp)/1000
// while unpaused.
type RoomPlayStatus struct {
	RoomId    string  `json:"room_id"`
	Paused    bool    `json:"paused"`
	Time      float64 `json:"time"`
	Timestamp int64   `json:"timestamp"`
	VideoId   string  `json:"video_id"`
}

type Member struct {
	Id       string `json:"id"`
	RoomId   string `json:"room_id"`
	Username string `json:"username"`
	JoinedAt int64  `json:"joined_at"`
}
