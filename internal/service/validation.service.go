package service

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	InviteCodeLength     = 8
	ChatMessageMaxLength = 500
	MaxPlaybackSpeed     = 4.0
	RoomNameMaxLength    = 100
)

var InviteCodeRule = []validation.Rule{
	validation.Required.Error("Invalid invite code"),
	validation.Match(regexp.MustCompile("^[A-Z0-9]{8}$")).Error("Invalid invite code"),
}

var PartyIdRule = []validation.Rule{
	validation.Required.Error("Party not found"),
	is.UUID.Error("Party not found"),
}

var RoomNameRule = []validation.Rule{
	validation.Required.Error("Room name is required"),
	validation.RuneLength(1, RoomNameMaxLength).Error("Room name is too long"),
}

var MovieIdRule = []validation.Rule{
	validation.Required.Error("Movie id is required"),
	validation.RuneLength(1, 64).Error("Movie id is invalid"),
}

// ChatContentRule applies to trimmed content.
var ChatContentRule = []validation.Rule{
	validation.Required.Error("Message cannot be empty"),
}

// ChatLengthRule applies to content as sent, surrounding whitespace included.
var ChatLengthRule = []validation.Rule{
	validation.RuneLength(0, ChatMessageMaxLength).Error("Message too long"),
}

var PlaybackSpeedRule = []validation.Rule{
	validation.Required.Error("Playback speed must be greater than 0"),
	validation.Min(0.0).Exclusive().Error("Playback speed must be greater than 0"),
	validation.Max(MaxPlaybackSpeed).Error("Playback speed must not exceed 4"),
}

var CurrentTimeRule = []validation.Rule{
	validation.Min(0.0).Error("Current time must not be negative"),
}
