// Package bootstrap runs one-shot commands with a uniform lifecycle.
//
// An App validates its typed configuration, builds the logger, starts the
// registered components, runs the OnStart hooks and then the task. OnStop
// hooks and component shutdown always follow, even when startup fails
// part way.
//
//	app, err := bootstrap.NewApp(&cfg, bootstrap.WithSignalHandling())
//	if err != nil {
//	    return err
//	}
//	client := transcribe.NewComponent(cfg.Transcribe)
//	_ = app.RegisterComponent(client)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    _, err := client.Client().GetTranscriptionJob(ctx, "job1")
//	    return err
//	})
package bootstrap
