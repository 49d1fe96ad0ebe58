package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmkor/button-game-backend/internal/coordinator"
	"github.com/dmkor/button-game-backend/internal/game"
)

func renderReply(reply coordinator.Reply) string {
	switch reply.Kind {
	case coordinator.ReplyEliminated:
		return "You have been eliminated. The game is over for you."
	case coordinator.ReplyNotStarted:
		return "The game has not started yet."
	case coordinator.ReplyMenu:
		return renderMenu(reply)
	default:
		return "Something went wrong, please try again."
	}
}

func renderMenu(reply coordinator.Reply) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Session status: %s\n", reply.Session.Status)
	if reply.Player.SeatNumber != nil {
		fmt.Fprintf(&b, "Your seat: %d\n", *reply.Player.SeatNumber)
	}
	if reply.Player.IsAdmin {
		b.WriteString("Admin commands: /game_start /game_stop /game_reset")
	}
	return strings.TrimRight(b.String(), "\n")
}

func renderLifecycle(cmd coordinator.Command, session game.Session) string {
	switch cmd {
	case coordinator.CmdStart:
		return "Game started."
	case coordinator.CmdStop:
		return "Game stopped."
	case coordinator.CmdReset:
		return fmt.Sprintf("Game reset, session back to %s.", session.Status)
	default:
		return "Unknown command."
	}
}

func renderRejection(err error) string {
	switch {
	case errors.Is(err, coordinator.ErrGameInProgress):
		return "The game is already in progress, joining is closed."
	case errors.Is(err, coordinator.ErrRoomFull):
		return "All seats are taken."
	case errors.Is(err, coordinator.ErrPermissionDenied):
		return "You are not allowed to do that."
	default:
		return "Unknown command."
	}
}
