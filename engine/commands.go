package engine

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// ExecuteCommand splits line on single spaces and dispatches on the first word.
func (e *engine) ExecuteCommand(line string) {
	slog.Info("console command", "component", "engine", "cmd", line)

	words := strings.Split(line, " ")
	if words[0] == "" {
		e.console.Print("")
		return
	}

	switch words[0] {
	case "res":
		e.cmdRes(words[1:])
	case "vsync":
		e.cmdVSync(words[1:])
	case "time":
		e.cmdTime(words[1:])
	case "exit":
		e.Quit()
	default:
		e.console.Print(words[0] + ": unknown command.")
	}
}

func (e *engine) cmdRes(args []string) {
	if len(args) != 2 {
		e.console.Print("res: command expects exactly 2 arguments.")
		return
	}
	w, errW := strconv.ParseUint(args[0], 10, 31)
	h, errH := strconv.ParseUint(args[1], 10, 31)
	if errW != nil || errH != nil || w == 0 || h == 0 {
		e.console.Print(fmt.Sprintf("res: invalid resolution - \"%s %s\"", args[0], args[1]))
		return
	}
	e.setResolution(int(w), int(h))
	e.cfg.ResX, e.cfg.ResY = int(w), int(h)
	e.saveConfig()
	e.console.Print(fmt.Sprintf("Window resized to %dx%d", w, h))
}

func (e *engine) cmdVSync(args []string) {
	if len(args) != 1 {
		e.console.Print("vsync: command expects exactly 1 argument.")
		return
	}
	switch args[0] {
	case "on", "off":
		on := args[0] == "on"
		e.renderer.SetPresentMode(presentMode(on))
		e.cfg.VSync = on
		e.saveConfig()
		if on {
			e.console.Print("Vsync enabled.")
		} else {
			e.console.Print("Vsync disabled.")
		}
	default:
		e.console.Print("vsync: unknown argument - \"" + args[0] + "\"")
	}
}

func (e *engine) cmdTime(args []string) {
	if len(args) != 1 {
		e.console.Print("time: command expects exactly 1 argument.")
		return
	}
	h, err := strconv.ParseFloat(args[0], 32)
	if err != nil || !(h >= 0 && h < 24) {
		e.console.Print("time: invalid hour - \"" + args[0] + "\"")
		return
	}
	e.scene.SetTimeOfDay(float32(h))
	e.console.Print(fmt.Sprintf("Time set to %05.2f.", h))
}
