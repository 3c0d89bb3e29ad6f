package router

import (
	"net"
	"net/http"
	"time"

	"github.com/gobwas/ws"
	"github.com/julienschmidt/httprouter"
	"github.com/lintang-b-s/navigatorx-guidance/pkg/http/router/controllers"
	"github.com/mailru/easygo/netpoll"
	"go.uber.org/zap"
)

/*
serveWebsocket. upgrade the request and register the connection in the hub; from then on every navigation
update is pushed to it.

read readiness and hang-ups are watched with the epoll api instead of one blocked reader goroutine per
connection, ref: https://sergey.kamardin.org/articles/million-websocket-and-go/
*/
func (api *API) serveWebsocket(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	conn, _, hs, err := ws.UpgradeHTTP(r, w)
	if err != nil {
		api.log.Info("upgrade error", zap.Error(err), zap.String("remote", r.RemoteAddr))
		return
	}
	// the http server deadlines stay on a hijacked connection
	_ = conn.SetDeadline(time.Time{})

	api.log.Info("established websocket connection", zap.String("connection name", nameConn(conn)),
		zap.String("protocol", hs.Protocol))

	user := api.hub.Register(conn)

	if api.poller == nil {
		go api.readLoop(user)
		return
	}

	desc, err := netpoll.HandleRead(conn)
	if err != nil {
		api.log.Warn("cannot watch websocket connection with netpoll", zap.Error(err))
		go api.readLoop(user)
		return
	}

	user.OnClose(func() {
		_ = api.poller.Stop(desc)
		_ = desc.Close()
	})

	err = api.poller.Start(desc, func(ev netpoll.Event) {
		if ev&(netpoll.EventReadHup|netpoll.EventHup) != 0 {
			// peer closed its end of the connection
			api.log.Info("user disconnected from websocket server", zap.Uint("user", user.ID()))
			api.hub.Remove(user)
			return
		}

		if err := api.pool.Schedule(func() {
			if err := user.Receive(); err != nil {
				api.log.Info("closing websocket connection", zap.Uint("user", user.ID()), zap.Error(err))
				api.hub.Remove(user)
			}
		}); err != nil {
			api.hub.Remove(user)
		}
	})
	if err != nil {
		api.log.Warn("cannot watch websocket connection with netpoll", zap.Error(err))
		api.hub.Remove(user)
	}
}

func (api *API) readLoop(user *controllers.User) {
	for {
		if err := user.Receive(); err != nil {
			api.hub.Remove(user)
			return
		}
	}
}

func nameConn(conn net.Conn) string {
	return conn.LocalAddr().String() + " > " + conn.RemoteAddr().String()
}
