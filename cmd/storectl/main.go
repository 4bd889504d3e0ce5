// storectl queries the movie store's internal Catalog gRPC service.
//
//	storectl [-addr host:port] movie <movie-id>
//	storectl [-addr host:port] exists <movie-id>
//	storectl [-addr host:port] trending <region|global>
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"movie-store/internal/clients"

	"google.golang.org/grpc/status"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: storectl [-addr host:port] movie|exists|trending <arg>\n")
	flag.PrintDefaults()
}

func main() {
	addr := flag.String("addr", "localhost:9090", "Catalog gRPC address")
	verbose := flag.Bool("v", false, "log gRPC calls to stderr")
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 2 {
		usage()
		os.Exit(2)
	}

	var logOut io.Writer = io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))

	client, err := clients.NewCatalogClient(*addr, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer client.Close()

	result, err := run(context.Background(), client, flag.Arg(0), flag.Arg(1))
	if err != nil {
		if st, ok := status.FromError(err); ok {
			fmt.Fprintf(os.Stderr, "%s: %s\n", st.Code(), st.Message())
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		client.Close()
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, client *clients.CatalogClient, command, arg string) (interface{}, error) {
	switch command {
	case "movie":
		return client.GetMovieInfo(ctx, arg)
	case "exists":
		exists, err := client.CheckMovieExists(ctx, arg)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"movie_id": arg, "exists": exists}, nil
	case "trending":
		return client.GetTrending(ctx, arg)
	default:
		return nil, fmt.Errorf("unknown command %q", command)
	}
}
