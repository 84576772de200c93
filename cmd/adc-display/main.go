// Command adc-display drives a 3-digit multiplexed 7-segment display from an
// ADC reading and a button-adjusted threshold, and raises an alarm line when
// the reading exceeds the threshold.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"periph.io/x/conn/v3/physic"

	"github.com/fitodd-23707/adc-display/internal/adc"
	"github.com/fitodd-23707/adc-display/internal/config"
	"github.com/fitodd-23707/adc-display/internal/display"
	"github.com/fitodd-23707/adc-display/internal/gpio"
	"github.com/fitodd-23707/adc-display/internal/logic"
	"github.com/fitodd-23707/adc-display/internal/mqtt"
	"github.com/fitodd-23707/adc-display/internal/status"
	"github.com/fitodd-23707/adc-display/internal/web"
)

func main() {
	configPath := flag.String("config", "/etc/adc-display.yaml", "YAML config file (defaults are used if missing)")
	broker := flag.String("broker", "", `MQTT broker address (overrides config, "off" disables)`)
	httpAddr := flag.String("http", "", `HTTP status address (overrides config, "off" disables)`)
	printState := flag.Bool("print-state", false, "Print buttons and one ADC reading, then exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
	applyOverrides(cfg, *broker, *httpAddr)

	if err := run(cfg, *printState); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// applyOverrides applies non-empty command line values on top of the config file.
func applyOverrides(cfg *config.Config, broker, httpAddr string) {
	switch broker {
	case "":
	case "off":
		cfg.MQTT.Broker = ""
	default:
		cfg.MQTT.Broker = broker
	}
	switch httpAddr {
	case "":
	case "off":
		cfg.HTTP.Addr = ""
	default:
		cfg.HTTP.Addr = httpAddr
	}
}

func run(cfg *config.Config, printState bool) error {
	// Initialize GPIO (all digits dark, alarm off)
	board, err := gpio.NewRealBoard(cfg.GPIO.Chip, cfg.Pins())
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer func() {
		if err := board.Close(); err != nil {
			log.Printf("gpio close: %v", err)
		}
	}()

	conv, err := adc.OpenMCP3008(cfg.ADC.Port, cfg.ADC.Channel, physic.Frequency(cfg.ADC.SpeedHz)*physic.Hertz)
	if err != nil {
		return fmt.Errorf("init adc: %w", err)
	}
	defer conv.Close()

	if printState {
		return printCurrentState(board, conv)
	}

	var publisher interface {
		mqtt.Publisher
		mqtt.ConnectionStatus
	} = mqtt.NopPublisher{}
	if cfg.MQTT.Broker != "" {
		// The main loop only enqueues; broker round trips happen on the queue's goroutine.
		remote := mqtt.NewRealPublisher(cfg.MQTT.Broker, cfg.MQTT.ClientID, mqtt.TopicsFor(cfg.MQTT.TopicPrefix))
		publisher = mqtt.NewAsyncPublisher(remote, mqtt.QueueSize)
	}
	defer publisher.Close()

	// Shared values: counter written only by the main loop, reading only by the sampler.
	var counter logic.Counter
	var reading logic.Reading

	tracker := status.NewTracker(time.Now(), status.Config{
		RefreshUs:   cfg.Timing.Refresh.Microseconds(),
		SettleMs:    cfg.Timing.Settle.Milliseconds(),
		PollMs:      cfg.Timing.Poll.Milliseconds(),
		HeartbeatMs: cfg.Timing.Heartbeat.Milliseconds(),
		ADCChannel:  cfg.ADC.Channel,
		Broker:      cfg.MQTT.Broker,
		HTTPAddr:    cfg.HTTP.Addr,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Start HTTP status server
	if cfg.HTTP.Addr != "" {
		srv := web.New(cfg.HTTP.Addr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTP.Addr)
	}

	sampler := adc.NewSampler(conv, &reading, cfg.ADC.Interval)
	refresher := display.NewRefresher(display.NewMultiplexer(&counter, &reading), board)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	// Background loops must stop before the deferred board.Close runs.
	defer wg.Wait()
	defer cancel()

	wg.Add(2)
	go func() {
		defer wg.Done()
		sampler.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		refreshTicker := time.NewTicker(cfg.Timing.Refresh)
		defer refreshTicker.Stop()
		refresher.Run(ctx, refreshTicker.C)
	}()

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	}

	log.Printf("started: refresh=%v settle=%v poll=%v adc=ch%d broker=%q heartbeat=%v",
		cfg.Timing.Refresh, cfg.Timing.Settle, cfg.Timing.Poll, cfg.ADC.Channel, cfg.MQTT.Broker, cfg.Timing.Heartbeat)

	ticker := time.NewTicker(cfg.Timing.Poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	start := time.Now()
	d := &daemon{
		buttons:    board,
		alarm:      board,
		counter:    &counter,
		reading:    &reading,
		controller: logic.NewController(&counter, &reading, cfg.Timing.Settle, start),
		publisher:  publisher,
		mqttStatus: publisher,
		tracker:    tracker,
		stats: func() status.Stats {
			return status.Stats{
				Samples:       sampler.Samples(),
				SampleErrors:  sampler.Errors(),
				Refreshes:     refresher.Refreshes(),
				RefreshErrors: refresher.Errors(),
			}
		},
		heartbeat: cfg.Timing.Heartbeat,
		now:       time.Now,
	}
	return d.runLoop(ticker.C, sigCh)
}

// alarmLine is the single output the main loop drives.
type alarmLine interface {
	SetAlarm(on bool) error
}

// daemon is the main control loop and its collaborators.
type daemon struct {
	buttons    gpio.Buttons
	alarm      alarmLine
	counter    *logic.Counter
	reading    *logic.Reading
	controller *logic.Controller
	publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus // may be nil
	tracker    *status.Tracker       // may be nil
	stats      func() status.Stats   // may be nil
	heartbeat  time.Duration
	now        func() time.Time

	readFailing  bool
	alarmFailing bool
}

// runLoop polls the buttons and re-evaluates the alarm on every tick until a
// signal arrives. It never returns an error for runtime I/O failures.
func (d *daemon) runLoop(tick <-chan time.Time, sig <-chan os.Signal) error {
	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			d.shutdown(s)
			return nil

		case <-tick:
			d.step()
		}
	}
}

func (d *daemon) step() {
	t := d.now()

	inc, dec, err := d.buttons.Read()
	if err != nil {
		// Treat unreadable buttons as released; the alarm keeps being evaluated.
		if !d.readFailing {
			log.Printf("button read error: %v", err)
			d.readFailing = true
		}
		inc, dec = false, false
	} else if d.readFailing {
		log.Printf("button reads recovered")
		d.readFailing = false
	}

	out, events := d.controller.Process(logic.Input{Inc: inc, Dec: dec, Time: t})

	if err := d.alarm.SetAlarm(out.Alarm); err != nil {
		if !d.alarmFailing {
			log.Printf("alarm write error: %v", err)
			d.alarmFailing = true
		}
	} else if d.alarmFailing {
		log.Printf("alarm writes recovered")
		d.alarmFailing = false
	}

	for _, event := range events {
		log.Printf("event: %s (counter=%d reading=%d alarm=%v)", event.Type, event.Counter, event.Reading, event.Alarm)
		if err := d.publisher.Publish(event); err != nil {
			log.Printf("publish error: %v", err)
			// Don't crash on publish failure
		}
	}

	d.updateTracker(out.Alarm)

	if hb := d.controller.CheckHeartbeat(t, d.heartbeat); hb != nil {
		log.Printf("heartbeat: uptime=%v inc=%d dec=%d alarm_on=%d alarm_off=%d",
			hb.Uptime, hb.Counts.Increments, hb.Counts.Decrements, hb.Counts.AlarmOn, hb.Counts.AlarmOff)
		hbEvent := mqtt.SystemEvent{
			Timestamp: hb.Timestamp,
			Event:     "HEARTBEAT",
		}
		if d.tracker != nil {
			// Refresh network info for heartbeat
			if net := readNetworkInfo(); net != nil {
				d.tracker.SetNetwork(net)
			}
			hbEvent.RawPayload = status.FormatStatusEvent(d.tracker.Snapshot(), "HEARTBEAT", "")
		}
		if err := d.publisher.PublishSystem(hbEvent); err != nil {
			log.Printf("heartbeat publish error: %v", err)
		}
	}
}

func (d *daemon) updateTracker(alarm bool) {
	if d.tracker == nil {
		return
	}
	d.tracker.Update(d.counter.Load(), d.reading.Load(), alarm, d.controller.EventCountsSnapshot())
	if d.stats != nil {
		d.tracker.SetStats(d.stats())
	}
	if d.mqttStatus != nil {
		d.tracker.SetMQTTConnected(d.mqttStatus.IsConnected())
	}
}

func (d *daemon) shutdown(s os.Signal) {
	if err := d.alarm.SetAlarm(false); err != nil {
		log.Printf("clear alarm: %v", err)
	}

	signalName := "UNKNOWN"
	if s == syscall.SIGINT {
		signalName = "SIGINT"
	} else if s == syscall.SIGTERM {
		signalName = "SIGTERM"
	}

	event := mqtt.SystemEvent{
		Timestamp: d.now(),
		Event:     "SHUTDOWN",
		Reason:    signalName,
		Retained:  true,
	}
	if d.tracker != nil {
		d.updateTracker(false)
		event.RawPayload = status.FormatStatusEvent(d.tracker.Snapshot(), "SHUTDOWN", signalName)
	}
	if err := d.publisher.PublishSystem(event); err != nil {
		log.Printf("failed to publish shutdown event: %v", err)
	} else {
		log.Printf("published shutdown event")
	}
}

func printCurrentState(buttons gpio.Buttons, conv adc.Converter) error {
	inc, dec, err := buttons.Read()
	if err != nil {
		return fmt.Errorf("read buttons: %w", err)
	}
	v, err := conv.Convert()
	if err != nil {
		return fmt.Errorf("read adc: %w", err)
	}
	fmt.Printf("INC: %s, DEC: %s, ADC: %d (0x%02X), digits: %02X %02X\n",
		pressedString(inc), pressedString(dec), v, v, display.Encode(v), display.Encode(v>>4))
	return nil
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}

func pressedString(pressed bool) string {
	if pressed {
		return "PRESSED"
	}
	return "RELEASED"
}
