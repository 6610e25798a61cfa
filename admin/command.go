package admin

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/fixkme/cotimer/errs"
	"github.com/fixkme/cotimer/loop"
	"github.com/fixkme/cotimer/timer"
)

var ErrBadCommand = errs.BadCommand

// Executor 由 *loop.Loop 实现, 命令都在loop协程里访问registry
type Executor interface {
	Do(f func(r *timer.Registry)) error
	Stats() loop.Stats
}

const helpText = `commands:
  stats         loop and registry counters
  list          all timers ordered by deadline
  cancel <id>   cancel one timer
  help          this text
  quit          close the connection`

// Exec 执行一行命令, 返回应答(以换行结尾)和是否关闭连接. 空行没有应答
func Exec(ex Executor, line string) (reply string, quit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	switch cmd {
	case "stats":
		return execStats(ex), false
	case "list":
		return execList(ex), false
	case "cancel":
		return execCancel(ex, args), false
	case "help":
		return helpText + "\n", false
	case "quit", "exit":
		return "bye\n", true
	}
	return errReply(ErrBadCommand.Print(cmd)), false
}

func execStats(ex Executor) string {
	st := ex.Stats()
	var timers int
	if err := ex.Do(func(r *timer.Registry) { timers = r.Len() }); err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("timers=%d ticks=%d fired=%d last_poll=%d\n", timers, st.Ticks, st.Fired, st.LastPoll)
}

func execList(ex Executor) string {
	var infos []timer.Info
	if err := ex.Do(func(r *timer.Registry) { infos = r.Snapshot() }); err != nil {
		return errReply(err)
	}
	var buf bytes.Buffer
	for _, info := range infos {
		fmt.Fprintf(&buf, "id=%d period=%d deadline=%d owner=%s\n", info.ID, info.Period, info.Deadline, info.OwnerName())
	}
	buf.WriteString(".\n")
	return buf.String()
}

func execCancel(ex Executor, args []string) string {
	if len(args) != 1 {
		return errReply(ErrBadCommand.Printf("usage: cancel <id>"))
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || id <= 0 {
		return errReply(timer.ErrInvalidId.Print(args[0]))
	}
	var ok bool
	if err := ex.Do(func(r *timer.Registry) { ok = r.Cancel(id) }); err != nil {
		return errReply(err)
	}
	if !ok {
		return errReply(timer.ErrNotFound.WithTimer(id))
	}
	return "ok\n"
}

func errReply(err error) string {
	ce := errs.WrapError(err)
	return fmt.Sprintf("err %d %s\n", ce.Code(), ce.Error())
}
