package web

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mogaika/animplayer/archive"
	"github.com/mogaika/animplayer/export"
	"github.com/mogaika/animplayer/status"
	"github.com/mogaika/animplayer/utils"
	"github.com/mogaika/animplayer/webutils"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type ajaxPlayerState struct {
	Animation  string
	Animations []string
	Ratio      float32
	Speed      float32
	Duration   float32
	Paused     bool
	Loop       bool
	JointCount int
	Meshes     []string
	BoundsMin  [3]float32
	BoundsMax  [3]float32
}

func HandlerAjaxPlayer(w http.ResponseWriter, r *http.Request) {
	v := serverViewer
	v.Mu.Lock()
	defer v.Mu.Unlock()

	keys := v.Player.AnimationKeys()
	sort.Strings(keys)

	meshNames := make([]string, 0, len(v.Player.Meshes()))
	for _, m := range v.Player.Meshes() {
		meshNames = append(meshNames, m.Name)
	}

	state := &ajaxPlayerState{
		Animation:  v.Player.CurrentAnimation(),
		Animations: keys,
		Ratio:      v.Player.TimeRatio(),
		Speed:      v.Player.PlaybackSpeed(),
		Duration:   v.Player.Duration(),
		Paused:     v.Paused,
		Loop:       v.Loop,
		JointCount: v.Player.Skeleton().JointCount(),
		Meshes:     meshNames,
	}
	if bounds := v.Player.ComputeSkeletonBounds(); bounds.Valid() {
		state.BoundsMin = bounds.Min
		state.BoundsMax = bounds.Max
	}

	webutils.WriteJson(w, state)
}

func HandlerAjaxAnimations(w http.ResponseWriter, r *http.Request) {
	v := serverViewer
	v.Mu.Lock()
	keys := v.Player.AnimationKeys()
	v.Mu.Unlock()

	sort.Strings(keys)
	webutils.WriteJson(w, keys)
}

func HandlerActionSelect(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	v := serverViewer
	v.Mu.Lock()
	defer v.Mu.Unlock()

	for _, known := range v.Player.AnimationKeys() {
		if known == key {
			v.Player.SelectAnimation(key)
			status.Info("Selected animation %q", key)
			webutils.WriteJson(w, key)
			return
		}
	}
	webutils.WriteError(w, fmt.Errorf("Unknown animation %q", key))
}

func HandlerActionSeek(w http.ResponseWriter, r *http.Request) {
	ratio, err := strconv.ParseFloat(mux.Vars(r)["ratio"], 32)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("ratio '%s' is not a number", mux.Vars(r)["ratio"]))
		return
	}

	v := serverViewer
	v.Mu.Lock()
	v.Player.Seek(float32(ratio))
	result := v.Player.TimeRatio()
	v.Mu.Unlock()

	webutils.WriteJson(w, result)
}

func HandlerActionSpeed(w http.ResponseWriter, r *http.Request) {
	speed, err := strconv.ParseFloat(mux.Vars(r)["speed"], 32)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("speed '%s' is not a number", mux.Vars(r)["speed"]))
		return
	}
	if speed <= 0 {
		webutils.WriteError(w, fmt.Errorf("speed %v is not positive", speed))
		return
	}

	v := serverViewer
	v.Mu.Lock()
	v.Player.SetPlaybackSpeed(float32(speed))
	v.Mu.Unlock()

	webutils.WriteJson(w, float32(speed))
}

func HandlerActionPause(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.ParseBool(mux.Vars(r)["state"])
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("state '%s' is not a bool", mux.Vars(r)["state"]))
		return
	}

	v := serverViewer
	v.Mu.Lock()
	v.Paused = state
	v.Mu.Unlock()

	webutils.WriteJson(w, state)
}

func HandlerActionLoop(w http.ResponseWriter, r *http.Request) {
	state, err := strconv.ParseBool(mux.Vars(r)["state"])
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("state '%s' is not a bool", mux.Vars(r)["state"]))
		return
	}

	v := serverViewer
	v.Mu.Lock()
	v.Loop = state
	v.Mu.Unlock()

	webutils.WriteJson(w, state)
}

func HandlerActionUnload(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	v := serverViewer
	v.Mu.Lock()
	v.Player.UnloadAnimation(key)
	v.Mu.Unlock()

	status.Info("Unloaded animation %q", key)
	webutils.WriteJson(w, key)
}

func HandlerUploadAnimation(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	data, err := webutils.ReadUploadedFile(r, "data")
	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	clip, err := archive.DecodeAnimation(data, nil)
	if err != nil {
		webutils.WriteError(w, fmt.Errorf("Failed to decode animation: %v", err))
		return
	}

	v := serverViewer
	v.Mu.Lock()
	err = v.Player.LoadClip(key, clip)
	v.Mu.Unlock()

	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	status.Info("Loaded animation %q", key)
	webutils.WriteJson(w, key)
}

// HandlerDumpAnimation returns a readable keyframe dump of one clip.
func HandlerDumpAnimation(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	v := serverViewer
	v.Mu.Lock()
	clip := v.Player.Clip(key)
	v.Mu.Unlock()

	if clip == nil {
		webutils.WriteError(w, fmt.Errorf("Unknown animation %q", key))
		return
	}
	webutils.WriteFile(w, bytes.NewBufferString(utils.SDump(clip)), key+".txt")
}

func HandlerDumpGLTF(w http.ResponseWriter, r *http.Request) {
	v := serverViewer
	v.Mu.Lock()
	doc, err := export.GLTFFromTarget(v.Target, v.Player.Meshes())
	v.Mu.Unlock()

	if err != nil {
		webutils.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteBinary(&buf, doc); err != nil {
		webutils.WriteError(w, err)
		return
	}
	webutils.WriteFile(w, &buf, "pose.glb")
}

func HandlerStatusWs(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[web] ws upgrade error: %v", err)
		return
	}
	status.NewClient(conn)
}
