// Copyright 2023 Memgrid
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// grid-server runs the memgrid SQL gateway on the built-in memory engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/memgrid/memgrid/pkg/config"
	"github.com/memgrid/memgrid/pkg/frontend"
	"github.com/memgrid/memgrid/pkg/logutil"
	"github.com/memgrid/memgrid/pkg/vm/engine/memoryengine"
)

func waitSignal() {
	sigchan := make(chan os.Signal, 1)
	signal.Notify(sigchan, syscall.SIGTERM, syscall.SIGINT)
	<-sigchan
}

func main() {
	flag.Parse()

	sv := &config.FrontendParameters{}
	if args := flag.Args(); len(args) > 0 {
		if err := config.LoadvarsConfigFromFile(args[0], sv); err != nil {
			fmt.Printf("error:%v\n", err)
			os.Exit(-1)
		}
	}
	sv.SetDefaultValues()

	logutil.SetupGridLogger(&logutil.LogConfig{
		Level:      sv.LogLevel,
		Format:     sv.LogFormat,
		Filename:   sv.LogFilename,
		MaxSize:    int(sv.LogMaxSize),
		MaxDays:    int(sv.LogMaxDays),
		MaxBackups: int(sv.LogMaxBackups),
	})

	eng := memoryengine.New()
	for _, name := range sv.Collections {
		if _, err := eng.CreateDatabase(name); err != nil {
			logutil.Fatalf("create collection %s failed. error:%v", name, err)
		}
	}

	pu := config.NewParameterUnit(sv, eng)
	addr := fmt.Sprintf("%s:%d", sv.Host, sv.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := frontend.NewGridServer(ctx, addr, pu)
	if err != nil {
		logutil.Fatalf("create server failed. error:%v", err)
	}
	if err := srv.Start(); err != nil {
		logutil.Fatalf("start server failed. error:%v", err)
	}

	fmt.Println("Shutdown the server with Ctrl+C.")
	waitSignal()

	if err := srv.Stop(ctx); err != nil {
		logutil.Errorf("stop server failed. error:%v", err)
	}
	fmt.Println("\rBye!")
}
