package main

import (
	"flag"
	"log"
	"time"

	"github.com/mogaika/animplayer/archive"
	"github.com/mogaika/animplayer/config"
	"github.com/mogaika/animplayer/player"
	"github.com/mogaika/animplayer/render"
	"github.com/mogaika/animplayer/status"
	"github.com/mogaika/animplayer/web"
)

func runFrameLoop(v *web.Viewer, frameRate float32) {
	interval := time.Duration(float64(time.Second) / float64(frameRate))
	start := time.Now()

	for range time.Tick(interval) {
		v.Mu.Lock()

		now := time.Since(start).Seconds()
		if err := v.Player.Update(now, v.Paused, v.Loop); err == nil {
			if err := v.Player.ApplyMeshes(v.Target, true); err != nil {
				log.Printf("[main] Failed to apply meshes: %v", err)
				status.Error("Failed to apply meshes: %v", err)
			}
			v.Frame++
		}

		animation := v.Player.CurrentAnimation()
		ratio := v.Player.TimeRatio()
		speed := v.Player.PlaybackSpeed()
		paused := v.Paused
		frame := v.Frame

		v.Mu.Unlock()

		if animation != "" {
			status.Frame(animation, ratio, speed, paused, frame)
		}
	}
}

func main() {
	var addr, dir, skeletonRes, meshRes, configPath, webPath string
	var animRes sliceFlag
	var speed, frameRate float64
	var loop bool
	flag.StringVar(&addr, "i", "", "Address of server")
	flag.StringVar(&dir, "dir", ".", "Path to directory with resource files")
	flag.StringVar(&skeletonRes, "skeleton", "skeleton.skl", "Skeleton resource name")
	flag.StringVar(&meshRes, "mesh", "mesh.msh", "Mesh resource name")
	flag.Var(&animRes, "anim", "Animation resource name, repeatable")
	flag.Float64Var(&speed, "speed", 0, "Playback speed override")
	flag.Float64Var(&frameRate, "rate", 0, "Simulation frame rate override")
	flag.BoolVar(&loop, "loop", true, "Loop playback")
	flag.StringVar(&configPath, "config", "", "Path to yaml config")
	flag.StringVar(&webPath, "web", "web", "Path to static web files")
	flag.Parse()

	if configPath != "" {
		if err := config.LoadFile(configPath); err != nil {
			log.Fatal(err)
		}
	}
	cfg := config.Get()
	if addr != "" {
		cfg.ListenAddr = addr
	}
	if speed != 0 {
		cfg.PlaybackSpeed = float32(speed)
	}
	if frameRate != 0 {
		cfg.FrameRate = float32(frameRate)
	}
	cfg.Loop = loop
	config.Set(cfg)

	loader := &archive.FileLoader{Dir: dir}

	p := player.NewPlayer(loader)
	if err := p.Initialize(skeletonRes, meshRes); err != nil {
		log.Fatal(err)
	}
	p.SetPlaybackSpeed(cfg.PlaybackSpeed)

	if len(animRes) == 0 {
		log.Printf("[main] No animations given, waiting for uploads")
	}
	for _, res := range animRes {
		if err := p.LoadAnimation(res, res); err != nil {
			log.Fatal(err)
		}
		log.Printf("[main] Loaded animation %q", res)
	}

	v := &web.Viewer{
		Player: p,
		Target: &render.BasicTarget{},
		Loop:   cfg.Loop,
	}

	go runFrameLoop(v, cfg.FrameRate)

	if err := web.StartServer(cfg.ListenAddr, v, webPath); err != nil {
		log.Fatal(err)
	}
}
