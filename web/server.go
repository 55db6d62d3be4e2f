package web

import (
	"log"
	"net/http"
	"os"
	"path"
	"sync"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/mogaika/animplayer/player"
	"github.com/mogaika/animplayer/render"
)

// Viewer bundles the playback state shared between the frame loop and the
// http handlers. Mu guards Player, Target and the flags.
type Viewer struct {
	Mu     sync.Mutex
	Player *player.Player
	Target *render.BasicTarget
	Paused bool
	Loop   bool
	Frame  uint64
}

var serverViewer *Viewer

func StartServer(addr string, v *Viewer, webPath string) error {
	serverViewer = v

	r := mux.NewRouter()
	r.HandleFunc("/json/player", HandlerAjaxPlayer)
	r.HandleFunc("/json/animations", HandlerAjaxAnimations)
	r.HandleFunc("/action/select/{key}", HandlerActionSelect)
	r.HandleFunc("/action/seek/{ratio}", HandlerActionSeek)
	r.HandleFunc("/action/speed/{speed}", HandlerActionSpeed)
	r.HandleFunc("/action/pause/{state}", HandlerActionPause)
	r.HandleFunc("/action/loop/{state}", HandlerActionLoop)
	r.HandleFunc("/action/unload/{key}", HandlerActionUnload)
	r.HandleFunc("/upload/animation/{key}", HandlerUploadAnimation)
	r.HandleFunc("/dump/animation/{key}", HandlerDumpAnimation)
	r.HandleFunc("/dump/gltf", HandlerDumpGLTF)
	r.HandleFunc("/ws/status", HandlerStatusWs)

	if webPath != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(path.Join(webPath, "data"))))
	}

	h := handlers.RecoveryHandler()(r)
	h = handlers.LoggingHandler(os.Stdout, h)

	log.Printf("[web] Starting server %v", addr)

	return http.ListenAndServe(addr, h)
}
