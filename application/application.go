package application

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gdamore/tcell/v2"

	"termnotes/buffer"
	"termnotes/commands"
	"termnotes/cursor"
	"termnotes/input"
	"termnotes/render"
	"termnotes/syncer"
)

type Options struct {
	Title            string
	PlaceholderTitle string
	Styles           func() render.Styles
}

type Application struct {
	screen   tcell.Screen
	buf      *buffer.Buffer
	cursor   *cursor.Cursor
	syncer   *syncer.Syncer
	router   *input.Router
	renderer *render.Renderer
	status   string

	log *log.Logger
}

// New loads the document for opts.Title and prepares the editor on screen.
func New(ctx context.Context, screen tcell.Screen, notes *syncer.Syncer, opts Options, log *log.Logger) (*Application, error) {
	width, _ := screen.Size()
	header := buffer.HeaderFor(opts.Title)
	content, err := notes.Load(ctx, header)
	if err != nil {
		return nil, err
	}
	log.Printf("Opened %q with %d rows", header, len(content))

	app := &Application{
		screen:   screen,
		buf:      buffer.New(opts.Title, content, width),
		cursor:   cursor.New(),
		syncer:   notes,
		renderer: render.New(screen, opts.Styles),
		log:      log,
	}

	cmds := commands.NewCommands(log)
	cmds.Register(input.CmdSave, app.save)
	cmds.Register(input.CmdRetitle, func(context.Context) error {
		app.buf.Retitle(opts.PlaceholderTitle)
		app.status = "retitled"
		return nil
	})
	app.router = input.NewRouter(app.buf, app.cursor, cmds, log)
	return app, nil
}

func (app *Application) Buffer() *buffer.Buffer {
	return app.buf
}

func (app *Application) Cursor() *cursor.Cursor {
	return app.cursor
}

func (app *Application) save(ctx context.Context) error {
	op, err := app.syncer.Save(ctx, app.buf)
	if err != nil {
		return err
	}
	app.status = fmt.Sprintf("saved %s (%v)", op.Header, op.Kind)
	return nil
}

// Run draws a frame, waits for one event, handles it, and starts over until
// the user quits, a signal arrives or a save fails.
func (app *Application) Run(ctx context.Context) error {
	for {
		app.buf.HighlightRow(app.cursor.Y)
		app.renderer.Render(app.buf, app.cursor, app.status)

		switch ev := app.screen.PollEvent().(type) {
		case nil:
			// screen finalized
			return nil
		case *tcell.EventResize:
			width, _ := ev.Size()
			app.buf.SetWidth(width)
			app.screen.Sync()
		case *tcell.EventInterrupt:
			if sig, ok := ev.Data().(os.Signal); ok {
				app.log.Printf("Received %v, quitting", sig)
				return nil
			}
		case *tcell.EventKey:
			app.status = ""
			res, err := app.router.Route(ctx, ev)
			if err != nil {
				return fmt.Errorf("%s: %w", res.Binding, err)
			}
			if res.Stop {
				app.log.Print("Quit requested")
				return nil
			}
		}
	}
}
