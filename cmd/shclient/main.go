package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/mkarev/shclient/api"
	"github.com/mkarev/shclient/config"
	"github.com/mkarev/shclient/credstore"
	"github.com/mkarev/shclient/eligibility"
	"github.com/mkarev/shclient/logger"
	"github.com/mkarev/shclient/models"
	"github.com/mkarev/shclient/monitor"
	"github.com/mkarev/shclient/notify"
	"github.com/mkarev/shclient/session"
)

func main() {
	create := flag.Bool("create", false, "create a new game before joining")
	gameID := flag.String("game", "", "game id to join or resume")
	username := flag.String("name", "", "username to join with")
	configPath := flag.String("config", ".", "directory containing config.yaml")
	flag.Parse()

	logger.InitDevelopment()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	creds, store := resolveIdentity(cfg, *create, *gameID, *username)
	defer store.Close()

	var mon *monitor.Monitor
	if cfg.Monitor.Address != "" {
		mon = monitor.NewMonitor("shclient")
		mon.StartServer(cfg.Monitor.Address)
	}

	sess, err := session.New(session.Config{
		WSBaseURL:         cfg.Server.WSBaseURL,
		GameID:            creds.GameID,
		PlayerID:          creds.PlayerID,
		ReconnectInterval: cfg.Client.ReconnectInterval(),
		Recorder:          recorder(mon),
	})
	if err != nil {
		logger.Log.Fatalf("Failed to create session: %v", err)
	}

	identityRejected := make(chan struct{}, 1)
	sess.Notifier().Subscribe(func(event notify.Event) {
		switch e := event.(type) {
		case notify.ErrorEvent:
			switch e.Category {
			case notify.CategoryIdentity:
				fmt.Printf("\n!! identity rejected: %s\n", e.Reason)
				select {
				case identityRejected <- struct{}{}:
				default:
				}
			case notify.CategoryGameRule:
				fmt.Printf("\n!! server refused action: %s\n", e.Reason)
			case notify.CategoryTransport:
				fmt.Println("\n.. connection trouble, reconnecting")
			case notify.CategoryProtocol:
				logger.Log.Warnw("protocol error", "reason", e.Reason)
			}
		case notify.ConnStateEvent:
			fmt.Printf("\n.. connection: %s\n", e.State)
		}
	})

	sess.Store().Subscribe(func(state *models.GameState) {
		printSnapshot(state, creds.PlayerID)
		printEligibility(sess)
	})

	fmt.Printf("Joining game %s as player %s\n", creds.GameID, creds.PlayerID)
	sess.Open()
	defer sess.Close()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	lines := make(chan string)
	go func() {
		reader := bufio.NewReader(os.Stdin)
		for {
			text, err := reader.ReadString('\n')
			if err != nil {
				close(lines)
				return
			}
			lines <- strings.TrimSpace(text)
		}
	}()

	fmt.Println("Commands: start | vote ja|nein | nominate N | legislate N |")
	fmt.Println("          investigate N | execute N | special N | end | say TEXT | who | quit")

	for {
		select {
		case <-interrupt:
			fmt.Println("\nInterrupt received, closing session.")
			return
		case <-identityRejected:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			_ = store.Delete(ctx, creds.GameID)
			cancel()
			fmt.Println("Stored credentials removed; rejoin with -name.")
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			if line == "quit" {
				return
			}
			if line != "" {
				runCommand(sess, line)
			}
		}
	}
}

// resolveIdentity finds or acquires a (game, player) pair: stored credentials
// win, otherwise the lobby API joins and the result is persisted.
func resolveIdentity(cfg *config.Config, create bool, gameID, username string) (credstore.Credentials, *credstore.Store) {
	store, err := credstore.Open(cfg.Store.CredentialsPath)
	if err != nil {
		logger.Log.Fatalf("Failed to open credential store: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	lobby := api.NewClient(cfg.Server.HTTPBaseURL)

	if create {
		resp, err := lobby.CreateGame(ctx)
		if err != nil {
			logger.Log.Fatalf("Failed to create game: %v", err)
		}
		fmt.Printf("Created game %s\n", resp.GameID)
		gameID = resp.GameID
	}

	if gameID == "" {
		logger.Log.Fatal("A game id is required: pass -game or -create")
	}

	if !create {
		if creds, err := store.Lookup(ctx, gameID); err == nil {
			fmt.Printf("Resuming seat for game %s\n", gameID)
			return creds, store
		}
	}

	if username == "" {
		logger.Log.Fatal("No stored seat for this game: pass -name to join")
	}

	resp, err := lobby.JoinGame(ctx, api.JoinGameRequest{GameID: gameID, Username: username})
	if err != nil {
		logger.Log.Fatalf("Failed to join game: %v", err)
	}

	creds := credstore.Credentials{
		GameID:   resp.GameID,
		PlayerID: resp.PlayerID,
		Username: username,
	}
	if err := store.Save(ctx, creds); err != nil {
		logger.Log.Warnf("Could not persist credentials: %v", err)
	}
	return creds, store
}

func runCommand(sess *session.GameSession, line string) {
	fields := strings.Fields(line)
	cmd := fields[0]

	var err error
	switch cmd {
	case "start":
		err = sess.StartGame()
	case "vote":
		if len(fields) < 2 {
			fmt.Println("usage: vote ja|nein")
			return
		}
		err = sess.Vote(fields[1] == "ja")
	case "nominate":
		err = seatCommand(fields, sess.Nominate)
	case "legislate":
		err = seatCommand(fields, sess.Legislate)
	case "investigate":
		err = seatCommand(fields, func(seat int) error {
			return sess.UseExecutivePower(models.ActionInvestigate, seat)
		})
	case "execute":
		err = seatCommand(fields, func(seat int) error {
			return sess.UseExecutivePower(models.ActionExecution, seat)
		})
	case "special":
		err = seatCommand(fields, func(seat int) error {
			return sess.UseExecutivePower(models.ActionSpecialElection, seat)
		})
	case "end":
		err = sess.EndTurn()
	case "say":
		err = sess.SendChat(strings.TrimSpace(strings.TrimPrefix(line, "say")))
	case "who":
		printSnapshot(sess.Current(), sess.PlayerID)
		printEligibility(sess)
	default:
		fmt.Printf("unknown command %q\n", cmd)
		return
	}

	if err != nil {
		fmt.Printf("!! %v\n", err)
	}
}

func seatCommand(fields []string, fn func(int) error) error {
	if len(fields) < 2 {
		return fmt.Errorf("a seat number is required")
	}
	seat, err := strconv.Atoi(fields[1])
	if err != nil {
		return fmt.Errorf("bad seat number %q", fields[1])
	}
	return fn(seat)
}

func printSnapshot(state *models.GameState, playerID string) {
	if state == nil {
		fmt.Println("(no snapshot yet)")
		return
	}

	fmt.Printf("\n== phase: %s | board L%d/%d F%d/%d | tracker %d/%d | deck %d\n",
		state.Phase,
		state.Board.LiberalPolicies, state.Board.LiberalSlots,
		state.Board.FascistPolicies, state.Board.FascistSlots,
		state.Board.ElectionTracker.FailedElections, state.Board.ElectionTracker.MaxFailures,
		state.DeckCount)

	for i := range state.Players {
		p := &state.Players[i]
		marks := ""
		if i == state.PresidentIndex {
			marks += " [president]"
		}
		if i == state.ChancellorIndex {
			marks += " [chancellor]"
		}
		if nominee, ok := state.Nominee(); ok && i == nominee {
			marks += " [nominee]"
		}
		if p.IsExecuted {
			marks += " [dead]"
		}
		if p.ID == playerID && p.ID != "" {
			marks += " <- you"
		}
		fmt.Printf("  %d: %-16s %-10s%s\n", i, p.Username, p.Role, marks)
	}

	if len(state.PeekedCards) > 0 {
		fmt.Printf("  cards offered: %v\n", state.PeekedCards)
	}
	if state.Phase == models.GameOver {
		fmt.Printf("  winner: %s\n", state.Winner)
	}
	for _, entry := range tail(state.ChatHistory, 3) {
		fmt.Printf("  chat %s: %s\n", entry.SenderName, entry.Text)
	}
}

func printEligibility(sess *session.GameSession) {
	el, err := sess.Eligibility()
	if err != nil {
		if err == eligibility.ErrIdentityNotRecognized {
			fmt.Println("  (your identity is not part of this game)")
		}
		return
	}

	if len(el.Actions) > 0 {
		names := make([]string, len(el.Actions))
		for i, a := range el.Actions {
			names[i] = string(a)
		}
		fmt.Printf("  available: %s", strings.Join(names, ", "))
		if len(el.TargetSeats) > 0 {
			fmt.Printf(" (targets %v)", el.TargetSeats)
		}
		if el.CardChoices > 0 {
			fmt.Printf(" (pick one of %d cards)", el.CardChoices)
		}
		fmt.Println()
	}
	if el.Waiting {
		fmt.Println("  waiting for other players...")
	}
}

func tail(entries []models.ChatEntry, n int) []models.ChatEntry {
	if len(entries) <= n {
		return entries
	}
	return entries[len(entries)-n:]
}

// recorder avoids handing session a typed-nil interface when no monitor is
// configured.
func recorder(mon *monitor.Monitor) session.Recorder {
	if mon == nil {
		return nil
	}
	return mon
}
