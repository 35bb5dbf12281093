package main

import (
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pagopa/pay-portal-service/internal/domain/models"
	"github.com/pagopa/pay-portal-service/pkg/encoding"
)

// Canned values returned on every successful call
const (
	demoCodiceContestoPagamento = "6f69d150541e11ebb70c7b05c53756dd"
	demoIDPagamento             = "123455"
	demoImporto                 = 1100
)

// rptIDUpstreamError answers with a plain text 500 that is not a fault body
const rptIDUpstreamError = "00000000000000000000000000000"

// paymentRequestFaults maps test RptIds to the fault detail they trigger
var paymentRequestFaults = map[string]string{
	"00000000000000000000000000009": "PAA_PAGAMENTO_DUPLICATO",
	"00000000000000000000000000008": "PAA_PAGAMENTO_IN_CORSO",
	"00000000000000000000000000007": "PAA_PAGAMENTO_SCADUTO",
	"00000000000000000000000000006": "PPT_DOMINIO_SCONOSCIUTO",
	"00000000000000000000000000005": "PPT_SINTASSI_EXTRAXSD",
	"00000000000000000000000000004": "UNKNOWN_ERROR",
	"00000000000000000000000000010": "PPT_PAGAMENTO_DUPLICATO",
	"00000000000000000000000000011": "PPT_PAGAMENTO_IN_CORSO",
}

// activationFaults maps test RptIds to the fault detail of POST payment-activations
var activationFaults = map[string]string{
	"00000000000000000000000000099": "PAA_PAGAMENTO_DUPLICATO",
}

func main() {
	var (
		port        = flag.Int("port", 1234, "port to listen on")
		faultStatus = flag.Int("fault-status", http.StatusInternalServerError, "HTTP status sent with fault bodies (400 reproduces the legacy mock)")
	)
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", *port),
		Handler:           newMockHandler(*faultStatus, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("PagoPA proxy mock listening",
			zap.String("address", server.Addr),
			zap.Int("fault_status", *faultStatus),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to serve", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	_ = server.Close()
}

type mock struct {
	faultStatus int
	logger      *zap.Logger
}

// newMockHandler serves the proxy routes under /api/v1 with an access log
func newMockHandler(faultStatus int, logger *zap.Logger) http.Handler {
	m := &mock{faultStatus: faultStatus, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/payment-requests/{rptId}", m.getPaymentRequest)
	mux.HandleFunc("POST /api/v1/payment-activations", m.postPaymentActivation)
	mux.HandleFunc("GET /api/v1/payment-activations/{codiceContestoPagamento}", m.getPaymentActivation)

	return accessLog(mux, logger)
}

func (m *mock) getPaymentRequest(w http.ResponseWriter, r *http.Request) {
	rptID := r.PathValue("rptId")

	if rptID == rptIDUpstreamError {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "Error!")
		return
	}
	if detail, ok := paymentRequestFaults[rptID]; ok {
		m.writeFault(w, detail)
		return
	}

	m.writeJSON(w, http.StatusOK, models.PaymentRequestsGetResponse{
		ImportoSingoloVersamento: demoImporto,
		CodiceContestoPagamento:  demoCodiceContestoPagamento,
		IbanAccredito:            "IT21Q0760101600000000546200",
		CausaleVersamento:        "Retta asilo [demo]",
		EnteBeneficiario:         demoEnteBeneficiario(),
	})
}

func (m *mock) postPaymentActivation(w http.ResponseWriter, r *http.Request) {
	var body struct {
		RptID string `json:"rptId"`
	}
	// an unreadable body falls through to the canned activation
	if raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 64<<10)); err == nil {
		_ = encoding.DecodeJSON(raw, &body)
	}

	if detail, ok := activationFaults[body.RptID]; ok {
		m.writeFault(w, detail)
		return
	}

	m.writeJSON(w, http.StatusOK, models.PaymentActivationsPostResponse{
		CodiceContestoPagamento:  demoCodiceContestoPagamento,
		IbanAccredito:            "IT21Q0760101600000000546200",
		CausaleVersamento:        "Retta asilo [demo]",
		EnteBeneficiario:         demoEnteBeneficiario(),
		ImportoSingoloVersamento: demoImporto,
	})
}

func (m *mock) getPaymentActivation(w http.ResponseWriter, r *http.Request) {
	m.writeJSON(w, http.StatusOK, models.PaymentActivationsGetResponse{IDPagamento: demoIDPagamento})
}

func (m *mock) writeFault(w http.ResponseWriter, detail string) {
	m.writeJSON(w, m.faultStatus, models.PaymentProblemJSON{Detail: &detail})
}

func (m *mock) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	body, err := encoding.EncodeJSON(v)
	if err != nil {
		m.logger.Error("failed to encode mock response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func demoEnteBeneficiario() *models.EnteBeneficiario {
	return &models.EnteBeneficiario{
		IdentificativoUnivocoBeneficiario: "01199250158",
		DenominazioneBeneficiario:         "Comune di Milano",
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (s *statusWriter) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func accessLog(next http.Handler, logger *zap.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		logger.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", sw.status),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}
