package main

import (
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/nonstopfor/GAN-Travel-Frog/internal/generator"
	"github.com/nonstopfor/GAN-Travel-Frog/internal/handlers"
)

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	}
}

func main() {
	// Get the project root directory
	execPath, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to get working directory: %v", err)
	}

	// If running from cmd/server, go up two levels
	if filepath.Base(execPath) == "server" {
		execPath = filepath.Join(execPath, "../..")
	}

	modelDir := os.Getenv("MODEL_DIR")
	if modelDir == "" {
		modelDir = filepath.Join(execPath, "models")
	}

	variant := generator.VariantFloat
	if v := os.Getenv("MODEL_VARIANT"); v != "" {
		if variant, err = generator.ParseVariant(v); err != nil {
			log.Fatalf("Bad MODEL_VARIANT: %v", err)
		}
	}

	device := generator.DeviceCPU
	if d := os.Getenv("DEVICE"); d != "" {
		if device, err = generator.ParseDevice(d); err != nil {
			log.Fatalf("Bad DEVICE: %v", err)
		}
	}

	numThreads := 4
	if n := os.Getenv("NUM_THREADS"); n != "" {
		if numThreads, err = strconv.Atoi(n); err != nil {
			log.Fatalf("Bad NUM_THREADS: %v", err)
		}
	}

	log.Printf("Loading %s model from: %s (device=%s, threads=%d)",
		variant, modelDir, device, numThreads)

	gen, err := generator.NewONNX(variant, device, numThreads, modelDir)
	if err != nil {
		log.Fatalf("Failed to initialize generator: %v", err)
	}
	defer gen.Close()

	handler := handlers.NewHandler(gen)

	http.HandleFunc("/health", enableCORS(handler.Health))
	http.HandleFunc("/generate", enableCORS(handler.Generate))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bounds := gen.OutputBounds()
	log.Printf("Server starting on port %s", port)
	log.Printf("Output image size: %dx%d", bounds.Dx(), bounds.Dy())
	log.Println("Endpoints:")
	log.Println("  GET /health - Health check")
	log.Println("  POST /generate - Generate an image from a line drawing upload")
	log.Printf("\n💡 Upload test: curl -X POST -F \"drawing=@sketch.png\" http://localhost:%s/generate -o out.png\n\n", port)

	if err := http.ListenAndServe(":"+port, nil); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
