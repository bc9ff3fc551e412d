// TodayTix Scraper - Ticket Inventory Discovery and Repricing
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/zaidejaz/todaytix-scraper

/*
Package supervisor runs the long-lived components under a suture v4 tree.

The tree has three layers, each its own supervisor so a crash is
restarted without touching the others:

	todaytix-scraper (root)
	├── messaging-layer   websocket hub, run event router
	├── scraper-layer     periodic scrape job
	└── api-layer         HTTP server

Services come from the services subpackage. Supervisor events are logged
through sutureslog with the application's slog logger.

Usage:

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	tree.AddMessagingService(services.NewHubService(hub))
	tree.AddScraperService(services.NewScraperService(manager, cfg.Scraper.StartOnBoot))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
