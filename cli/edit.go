package cli

import (
	"context"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"termnotes/application"
	"termnotes/render"
)

func addEdit(topLevel *cobra.Command, o *options) {
	var title string
	topLevel.Flags().StringVarP(&title, "title", "t", "", "title of the document to edit (default editor.default_title)")
	topLevel.Args = cobra.NoArgs
	topLevel.Example = `
termnotes
termnotes --title groceries
termnotes --backend disk -t scratch
`
	topLevel.RunE = func(cmd *cobra.Command, _ []string) error {
		return o.edit(cmd.Context(), title)
	}
}

func (o *options) edit(ctx context.Context, title string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	e, err := o.setup(ctx)
	if err != nil {
		return err
	}
	defer e.Close()

	if title == "" {
		title = e.cfg.Editor().DefaultTitle
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := e.cfg.Watch(ctx, e.log); err != nil {
		e.log.Printf("Config changes will not be picked up: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	sess, err := application.Open(screen)
	if err != nil {
		return err
	}
	defer sess.Close()
	sess.ForwardSignals(ctx)
	sess.WakeOn(ctx, e.cfg.Reloaded())

	app, err := application.New(ctx, sess.Screen(), e.notes, application.Options{
		Title:            title,
		PlaceholderTitle: e.cfg.Editor().PlaceholderTitle,
		Styles: func() render.Styles {
			return render.StylesFrom(e.cfg.Editor())
		},
	}, e.log)
	if err != nil {
		return err
	}
	return app.Run(ctx)
}
