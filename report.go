package spc

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/cenkalti/backoff"
	structpb "github.com/golang/protobuf/ptypes/struct"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"

	"github.com/BTBurke/spc/pb"
	"github.com/BTBurke/spc/pkg/capability"
	"github.com/BTBurke/spc/pkg/chart"
)

const (
	defaultSendTimeout    = 1 * time.Minute
	defaultAttemptTimeout = 10 * time.Second
)

// ReportSender is an interface for publishing results
type ReportSender interface {
	Send(r *Result) error
}

// Report publishes results to a collector over gRPC.  See pb.ReportsServer for the receiving side.
type Report struct {
	sender  sender
	timeout time.Duration
	errors  ErrorReporter
}

// sender is an interface for creating and transmitting a single report
type sender interface {
	create(r *Result) *structpb.Struct
	send(report *structpb.Struct) error
}

// senderService implements the sender interface using gRPC
type senderService struct {
	host   string
	port   string
	useTLS bool
	opts   []grpc.DialOption
}

// Send creates a report from the result and transmits it, retrying with exponential backoff until the call
// succeeds or the send timeout elapses.  A failed send is forwarded to the error reporter and returned.
func (r *Report) Send(res *Result) error {
	if res == nil {
		return fmt.Errorf("no result to report")
	}
	report := r.sender.create(res)
	if report == nil {
		return fmt.Errorf("no report created for %s", res.Characteristic)
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = r.timeout
	err := backoff.Retry(func() error { return r.sender.send(report) }, b)
	if err != nil {
		err = fmt.Errorf("could not publish %s result: %w", res.Characteristic, err)
		if r.errors != nil {
			r.errors.ReportError(err)
		}
		return err
	}
	return nil
}

func (s *senderService) create(r *Result) *structpb.Struct {
	return reportFromResult(r)
}

func (s *senderService) dialOptions() []grpc.DialOption {
	opts := append([]grpc.DialOption{}, s.opts...)
	if s.useTLS {
		return append(opts, grpc.WithTransportCredentials(credentials.NewTLS(&tls.Config{})))
	}
	return append(opts, grpc.WithInsecure())
}

func (s *senderService) send(report *structpb.Struct) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultAttemptTimeout)
	defer cancel()

	conn, err := grpc.DialContext(ctx, net.JoinHostPort(s.host, s.port), s.dialOptions()...)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := pb.NewReportsClient(conn)
	ack, err := client.Create(ctx, report)
	if err != nil {
		return err
	}
	if !pb.Success(ack) {
		return fmt.Errorf("send fail")
	}
	return nil
}

// reportFromResult converts a Result to the wire representation stored by the collector
func reportFromResult(r *Result) *structpb.Struct {
	c := r.Capability

	var violations []*structpb.Value
	for _, v := range r.Chart.Violations {
		violations = append(violations, pb.Struct(map[string]*structpb.Value{
			"chart":    pb.String(string(v.Chart)),
			"subgroup": pb.Number(float64(v.Subgroup)),
			"value":    pb.Number(v.Value),
			"above":    pb.Bool(v.Above),
		}))
	}

	var tests []*structpb.Value
	for _, t := range r.Normality.Results() {
		tests = append(tests, pb.Struct(map[string]*structpb.Value{
			"test":       pb.String(string(t.Test)),
			"statistic":  pb.Number(t.Statistic),
			"p_value":    pb.Number(t.PValue),
			"conclusion": pb.String(t.Conclusion.Text()),
		}))
	}

	exceedance := func(e capability.Exceedance) *structpb.Value {
		return pb.Struct(map[string]*structpb.Value{
			"below_lsl": pb.Number(e.BelowLSL),
			"above_usl": pb.Number(e.AboveUSL),
			"within":    pb.Number(e.Within),
		})
	}
	limits := func(l chart.Limits) *structpb.Value {
		return pb.Struct(map[string]*structpb.Value{
			"center": pb.Number(l.Center),
			"lower":  pb.Number(l.Lower),
			"upper":  pb.Number(l.Upper),
		})
	}

	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"id":             pb.String(r.ID),
		"characteristic": pb.String(r.Characteristic),
		"n":              pb.Number(float64(r.N)),
		"subgroups":      pb.Number(float64(len(r.Subgroups))),
		"subgroup_size":  pb.Number(float64(r.Chart.Size)),
		"limits": pb.Struct(map[string]*structpb.Value{
			"nominal": pb.Number(r.Limits.Nominal),
			"lsl":     pb.Number(r.Limits.LSL),
			"usl":     pb.Number(r.Limits.USL),
		}),
		"chart": pb.Struct(map[string]*structpb.Value{
			"xbar":       limits(r.Chart.XBar),
			"range":      limits(r.Chart.Range),
			"sigma":      pb.Number(r.Chart.Sigma),
			"in_control": pb.Bool(r.InControl()),
			"violations": pb.List(violations...),
		}),
		"indices": pb.Struct(map[string]*structpb.Value{
			"mean": pb.Number(c.Mean),
			"cp":   pb.Number(c.Within.Cp),
			"cpl":  pb.Number(c.Within.Cpl),
			"cpu":  pb.Number(c.Within.Cpu),
			"cpk":  pb.Number(c.Within.Cpk),
			"cpm":  pb.Number(c.Within.Cpm),
			"pp":   pb.Number(c.Overall.Pp),
			"ppl":  pb.Number(c.Overall.Ppl),
			"ppu":  pb.Number(c.Overall.Ppu),
			"ppk":  pb.Number(c.Overall.Ppk),
		}),
		"expected":    exceedance(c.Expected),
		"observed":    exceedance(c.Observed),
		"normality":   pb.List(tests...),
		"cpk_verdict": pb.String(r.Cpk.Text()),
		"ppk_verdict": pb.String(r.Ppk.Text()),
		"created_at":  pb.Number(float64(time.Now().Unix())),
	}}
}
