package room

import "errors"

var (
	ErrRoomNotFound         = errors.New("room not found")
	ErrMemberNotFound       = errors.New("member not found")
	ErrPlaylistItemNotFound = errors.New("playlist item not found")
	ErrVideoSourceNotFound  = errors.New("video source not found")
	ErrPlayStatusNotFound   = errors.New("play status not found")
)
