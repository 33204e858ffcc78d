package room

type SetRoomParams struct {
	RoomId    string
	CreatedAt int64
}

type SetMemberParams struct {
	MemberId string
	RoomId   string
	Username string
	JoinedAt int64
}

type GetMemberParams struct {
	MemberId string
	RoomId   string
}

type SetPlaylistItemParams struct {
	PlaylistItemId string
	RoomId         string
	Title          string
	PlayStatus     string
	CreatedAt      int64
}

type GetPlaylistItemParams struct {
	PlaylistItemId string
	RoomId         string
}

type RemovePlaylistItemParams struct {
	PlaylistItemId string
	RoomId         string
}

type UpdatePlaylistItemOrderParams struct {
	PlaylistItemId string
	RoomId         string
	OrderIndex     int
}

type UpdatePlaylistItemStatusParams struct {
	PlaylistItemId string
	RoomId         string
	PlayStatus     string
}

type SetVideoSourceParams struct {
	VideoSourceId  string
	PlaylistItemId string
	RoomId         string
	URL            string
	CreatedAt      int64
	LastActiveAt   int64
}

type SetPlayStatusParams struct {
	RoomId    string
	Paused    bool
	Time      float64
	Timestamp int64
	VideoId   string
}

type UpdatePlayStatusParams struct {
	RoomId    string
	Paused    bool
	Time      float64
	Timestamp int64
	VideoId   string
}

type UpdatePlayStatusPauseParams struct {
	RoomId    string
	Paused    bool
	Timestamp int64
}
