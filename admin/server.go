// Package admin serves a newline delimited text protocol for inspecting a
// running timer loop over TCP.
package admin

import (
	"bytes"
	"context"
	"time"

	"github.com/fixkme/cotimer/mlog"
	"github.com/google/uuid"
	"github.com/panjf2000/gnet/v2"
)

const maxLineSize = 1024

type ServerOpt struct {
	Addr      string // host:port
	Multicore bool
}

type Server struct {
	gnet.BuiltinEventEngine
	eng    gnet.Engine
	booted chan struct{} // OnBoot之后关闭, 之后eng可用
	ex     Executor
	opt    ServerOpt
}

type session struct {
	id string
}

func NewServer(ex Executor, opt ServerOpt) *Server {
	return &Server{ex: ex, opt: opt, booted: make(chan struct{})}
}

// Run 阻塞直到Stop
func (s *Server) Run() error {
	return gnet.Run(s, "tcp://"+s.opt.Addr, gnet.WithMulticore(s.opt.Multicore), gnet.WithTCPKeepAlive(time.Minute))
}

// Stop 等待启动完成后停止, ctx结束时放弃
func (s *Server) Stop(ctx context.Context) error {
	select {
	case <-s.booted:
	case <-ctx.Done():
		return ctx.Err()
	}
	return s.eng.Stop(ctx)
}

func (s *Server) OnBoot(eng gnet.Engine) gnet.Action {
	s.eng = eng
	close(s.booted)
	mlog.Infof("admin server listening on %s", s.opt.Addr)
	return gnet.None
}

func (s *Server) OnOpen(c gnet.Conn) ([]byte, gnet.Action) {
	sess := &session{id: uuid.NewString()}
	c.SetContext(sess)
	mlog.Debugf("admin session %s open from %s", sess.id, c.RemoteAddr())
	return []byte("cotimer admin, type help\n"), gnet.None
}

func (s *Server) OnClose(c gnet.Conn, err error) gnet.Action {
	if sess, ok := c.Context().(*session); ok {
		mlog.Debugf("admin session %s closed, err=%v", sess.id, err)
	}
	return gnet.None
}

func (s *Server) OnTraffic(c gnet.Conn) gnet.Action {
	for {
		buf, err := c.Peek(-1)
		if err != nil || len(buf) == 0 {
			return gnet.None
		}
		line, n, ok := nextLine(buf)
		if !ok {
			if len(buf) > maxLineSize {
				mlog.Warnf("admin connection %s line too long, closing", c.RemoteAddr())
				return gnet.Close
			}
			return gnet.None
		}
		if _, err = c.Discard(n); err != nil {
			return gnet.Close
		}
		if sess, ok := c.Context().(*session); ok {
			mlog.Debugf("admin session %s: %s", sess.id, line)
		}
		reply, quit := Exec(s.ex, line)
		if reply != "" {
			if _, err = c.Write([]byte(reply)); err != nil {
				return gnet.Close
			}
		}
		if quit {
			return gnet.Close
		}
	}
}

// nextLine 返回第一行(去掉\r\n)和消耗的字节数
func nextLine(buf []byte) (line string, n int, ok bool) {
	idx := bytes.IndexByte(buf, '\n')
	if idx < 0 {
		return "", 0, false
	}
	return string(bytes.TrimRight(buf[:idx], "\r")), idx + 1, true
}
